package di

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	goerrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/observability"
)

var current atomic.Pointer[Container]

// SetCurrent makes c the container that MakeCurrent constructs into.
// The last call wins.
func SetCurrent(c *Container) { current.Store(c) }

// Current returns the current container, or nil.
func Current() *Container { return current.Load() }

// ClearCurrent resets the current container to nil.
func ClearCurrent() { current.Store(nil) }

// Construct builds an instance of class and wires it immediately.
//
// A service is registered under its key before its own dependencies are
// injected, so it is resolvable while partially wired. Two services that
// depend on each other therefore resolve in one direction only: the second
// one constructed sees the first, the first keeps a nil member.
//
// A controller is injected and then initialized. The returned error is the
// construction or post-init failure, if any; a controller whose Initialize
// failed is still returned and tracked.
func (c *Container) Construct(class *Class) (any, error) {
	return c.ConstructContext(context.Background(), class)
}

// ConstructContext is Construct with a context for tracing.
func (c *Container) ConstructContext(ctx context.Context, class *Class) (any, error) {
	if err := validateClass(class); err != nil {
		return nil, err
	}
	if err := c.lockStrategy(StrategyEager); err != nil {
		return nil, err
	}

	ctx, span := c.tel.StartSpan(ctx, observability.SpanConstruct,
		attribute.String(observability.AttrContainerID, c.id),
		attribute.String(observability.AttrClass, class.Name),
		attribute.String(observability.AttrKind, class.Kind.String()),
	)
	defer span.End()
	start := time.Now()
	defer func() { c.tel.RecordWire(ctx, StrategyEager.String(), time.Since(start)) }()

	instance, err := class.newInstance()
	if err != nil {
		c.emit(Diagnostic{Kind: DiagFailure, Key: class.Key(), Target: class.Name, Message: err.Error()})
		c.tel.RecordFailure(ctx, PhaseInstantiating.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	switch class.Kind {
	case KindService:
		c.register(ctx, class.Key(), instance)
		c.inject(ctx, class, instance)
	case KindController:
		c.registry.AddController(instance)
		c.inject(ctx, class, instance)
		if err := c.postInit(class, instance); err != nil {
			c.emit(Diagnostic{Kind: DiagFailure, Target: class.Name, Message: err.Error()})
			c.tel.RecordFailure(ctx, PhasePostInit.String())
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return instance, err
		}
	}
	span.SetAttributes(attribute.String(observability.AttrStatus, "ok"))
	return instance, nil
}

// Make is the typed form of Construct.
func Make[T any](c *Container, class *Class) (*T, error) {
	if err := checkClassType[T](class); err != nil {
		return nil, err
	}
	instance, err := c.Construct(class)
	if instance == nil {
		return nil, err
	}
	return instance.(*T), err
}

// MakeCurrent constructs class through the current container. With no current
// container the instance is built but not registered or wired.
func MakeCurrent[T any](class *Class) (*T, error) {
	if c := Current(); c != nil {
		return Make[T](c, class)
	}
	if err := checkClassType[T](class); err != nil {
		return nil, err
	}
	if err := validateClass(class); err != nil {
		return nil, err
	}
	instance, err := class.newInstance()
	if err != nil {
		return nil, err
	}
	return instance.(*T), nil
}

func checkClassType[T any](class *Class) error {
	if class == nil {
		return goerrors.InvalidClass("<nil>", "class is nil")
	}
	if want := reflect.TypeFor[*T](); class.Type != want {
		return goerrors.New(goerrors.ErrCodeTypeMismatch,
			fmt.Sprintf("class %s builds %s, expected %s", class.Name, class.Type, want))
	}
	return nil
}

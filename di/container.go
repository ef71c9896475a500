package di

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	goerrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

// Strategy is the wiring strategy a container is locked to.
type Strategy int

const (
	StrategyUnset Strategy = iota // chosen on first use
	StrategyScan                  // discover, instantiate, inject, post-init
	StrategyEager                 // wire each instance as it is constructed
)

func (s Strategy) String() string {
	switch s {
	case StrategyScan:
		return "scan"
	case StrategyEager:
		return "eager"
	default:
		return "unset"
	}
}

// ParseStrategy maps "scan" or "eager" to a Strategy. Anything else is unset.
func ParseStrategy(s string) Strategy {
	switch s {
	case "scan":
		return StrategyScan
	case "eager":
		return StrategyEager
	default:
		return StrategyUnset
	}
}

// Container owns a Registry and wires services and controllers into it with
// exactly one strategy for its lifetime.
type Container struct {
	id       string
	registry *Registry
	recorder *Recorder
	sinks    []Sink
	log      *logger.Logger
	tel      *observability.Instruments
	catalog  Catalog

	mu         sync.Mutex
	strategy   Strategy
	discovered map[string]bool

	// serializes Scan and AutoWire passes
	wireMu sync.Mutex
}

// Option configures a Container.
type Option func(*Container)

// WithStrategy locks the container to s up front. A container created with
// StrategyEager becomes the current container.
func WithStrategy(s Strategy) Option {
	return func(c *Container) { c.strategy = s }
}

// WithLogger sets the logger diagnostics are forwarded to.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.log = l }
}

// WithSink adds a diagnostics sink in addition to the built-in recorder.
func WithSink(s Sink) Option {
	return func(c *Container) { c.sinks = append(c.sinks, s) }
}

// WithCatalog sets the catalog Scan discovers classes from.
func WithCatalog(cat Catalog) Option {
	return func(c *Container) { c.catalog = cat }
}

// WithInstruments sets the tracer and metric instruments.
func WithInstruments(in *observability.Instruments) Option {
	return func(c *Container) { c.tel = in }
}

// New creates a container.
func New(opts ...Option) *Container {
	c := &Container{
		id:         uuid.NewString(),
		registry:   NewRegistry(),
		recorder:   NewRecorder(),
		discovered: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("di")
	}
	c.log = c.log.WithFields(logger.Fields(logger.FieldContainerID, c.id))
	if c.tel == nil {
		c.tel = observability.DefaultInstruments()
	}
	if c.strategy == StrategyEager {
		SetCurrent(c)
	}
	return c
}

// ID returns the container's unique identifier.
func (c *Container) ID() string { return c.id }

// Strategy returns the strategy the container is locked to.
func (c *Container) Strategy() Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strategy
}

// Registry returns the underlying registry.
func (c *Container) Registry() *Registry { return c.registry }

// lockStrategy fixes the strategy on first use and rejects the other one.
// Locking to eager makes c the current container.
func (c *Container) lockStrategy(s Strategy) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.strategy {
	case StrategyUnset:
		c.strategy = s
		if s == StrategyEager {
			SetCurrent(c)
		}
		return nil
	case s:
		return nil
	default:
		return goerrors.MixedStrategy(c.strategy.String(), s.String())
	}
}

// Register stores instance under key, replacing any previous instance.
// Replacement is reported as a diagnostic. Manual registration is allowed
// under either strategy.
func (c *Container) Register(key string, instance any) {
	c.register(context.Background(), key, instance)
}

func (c *Container) register(ctx context.Context, key string, instance any) {
	target := TargetName(instance)
	replaced := c.registry.Register(key, instance)
	c.tel.RecordRegistration(ctx, c.Strategy().String(), replaced)
	if replaced {
		c.emit(Diagnostic{
			Kind: DiagReplaced, Key: key, Target: target,
			Message: goerrors.DuplicateRegistration(key).Message,
		})
		return
	}
	c.emit(Diagnostic{Kind: DiagRegistered, Key: key, Target: target, Message: "registered " + key})
}

// RegisterServiceClass queues a service class for AutoWire. This locks the
// container to the scan strategy.
func (c *Container) RegisterServiceClass(class *Class) error {
	if err := validateClass(class); err != nil {
		return err
	}
	if class.Kind != KindService {
		return goerrors.InvalidClass(class.Name, "not service-marked")
	}
	if err := c.lockStrategy(StrategyScan); err != nil {
		return err
	}
	if !c.registry.RegisterClass(class.Key(), class) {
		c.emit(Diagnostic{Kind: DiagSkipped, Key: class.Key(), Target: class.Name,
			Message: "instance already registered; class not queued"})
	}
	return nil
}

// RegisterControllerClass queues a controller class for AutoWire. This locks
// the container to the scan strategy.
func (c *Container) RegisterControllerClass(class *Class) error {
	if err := validateClass(class); err != nil {
		return err
	}
	if class.Kind != KindController {
		return goerrors.InvalidClass(class.Name, "not controller-marked")
	}
	if err := c.lockStrategy(StrategyScan); err != nil {
		return err
	}
	c.registry.AddControllerClass(class)
	return nil
}

// Get returns the instance registered under key; false means absent.
func (c *Container) Get(key string) (any, bool) {
	return c.registry.Get(key)
}

// Lookup finds an instance by exact key, then by the instance name of name,
// so both "orderService" and "OrderService" find the same service.
func (c *Container) Lookup(name string) (any, bool) {
	if instance, ok := c.registry.Get(name); ok {
		return instance, true
	}
	return c.registry.Get(InstanceName(name))
}

// All returns a copy of every registered instance by key.
func (c *Container) All() map[string]any {
	return c.registry.All()
}

// Keys returns the registered keys in first-registration order.
func (c *Container) Keys() []string {
	return c.registry.Keys()
}

// Controllers returns the constructed controllers in construction order.
func (c *Container) Controllers() []any {
	return c.registry.Controllers()
}

// ControllerNames returns the instance names of the constructed controllers.
// These are for introspection only; controllers are not registry keys.
func (c *Container) ControllerNames() []string {
	controllers := c.registry.Controllers()
	out := make([]string, 0, len(controllers))
	for _, ctrl := range controllers {
		out = append(out, InstanceName(TargetName(ctrl)))
	}
	return out
}

// Classes returns the service classes still awaiting construction.
func (c *Container) Classes() []*Class {
	return c.registry.Classes()
}

// ControllerClasses returns the controller classes queued for AutoWire.
func (c *Container) ControllerClasses() []*Class {
	return c.registry.ControllerClasses()
}

// Diagnostics returns every diagnostic recorded since creation or the last Clear.
func (c *Container) Diagnostics() []Diagnostic {
	return c.recorder.Entries()
}

// DiagnosticsOf returns the recorded diagnostics of one kind.
func (c *Container) DiagnosticsOf(kind DiagnosticKind) []Diagnostic {
	return c.recorder.Filter(kind)
}

// Clear empties the registry, the controller list, the discovered-namespace
// set and the recorded diagnostics. The container stays usable and keeps its
// strategy.
func (c *Container) Clear() {
	c.registry.Clear()
	c.recorder.Reset()

	c.mu.Lock()
	c.discovered = make(map[string]bool)
	c.mu.Unlock()
}

func (c *Container) emit(d Diagnostic) {
	c.recorder.Record(d)
	LogSink{Logger: c.log}.Record(d)
	for _, s := range c.sinks {
		s.Record(d)
	}
}

// TargetName returns the type name of instance with pointers removed, as
// used in diagnostic targets.
func TargetName(instance any) string {
	if instance == nil {
		return "<nil>"
	}
	return typeName(reflect.TypeOf(instance))
}

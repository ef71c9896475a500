package di

import (
	"fmt"
	"reflect"

	goerrors "github.com/kbukum/wirekit/errors"
)

// Kind is the marker a class carries.
type Kind int

const (
	KindNone       Kind = iota // not a participant
	KindService                // injectable singleton
	KindController             // entry point, receives Initialize after wiring
)

func (k Kind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindController:
		return "controller"
	default:
		return "none"
	}
}

// Class describes a constructible type and its marker. Instances are always
// pointers to the described struct.
type Class struct {
	// Name is the declared type name.
	Name string
	// Type is the pointer type of constructed instances.
	Type reflect.Type
	// Kind is the class marker.
	Kind Kind

	explicit string
	factory  func() any
	deps     Declaration
}

// ClassOption configures a Class.
type ClassOption func(*Class)

// Named registers the class under key instead of its derived instance name.
// Direct references to the class's type resolve to key from then on.
func Named(key string) ClassOption {
	return func(c *Class) { c.explicit = key }
}

// WithDependency adds an explicit declaration entry for member.
func WithDependency(member string, ref Ref) ClassOption {
	return func(c *Class) { c.deps = append(c.deps, Dependency{Member: member, Ref: ref}) }
}

// WithFactory replaces the default zero-value construction.
func WithFactory[T any](fn func() *T) ClassOption {
	return func(c *Class) {
		c.factory = func() any { return fn() }
	}
}

// Service describes T as a service-marked class.
func Service[T any](opts ...ClassOption) *Class {
	return newClass[T](KindService, opts)
}

// Controller describes T as a controller-marked class.
func Controller[T any](opts ...ClassOption) *Class {
	return newClass[T](KindController, opts)
}

// Unmarked describes T without a marker. Scans ignore it.
func Unmarked[T any]() *Class {
	return newClass[T](KindNone, nil)
}

func newClass[T any](kind Kind, opts []ClassOption) *Class {
	t := reflect.TypeFor[T]()
	c := &Class{
		Name:    typeName(t),
		Type:    reflect.PointerTo(t),
		Kind:    kind,
		factory: func() any { return new(T) },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.explicit != "" {
		recordExplicitName(t, c.explicit)
	}
	return c
}

// Key returns the registration key: the explicit name if the type was ever
// described with Named, the type's ServiceName if it implements Namer,
// otherwise the instance name.
func (c *Class) Key() string {
	return ResolveKey(ClassRef(c))
}

// ExplicitName returns the name passed to Named, or "".
func (c *Class) ExplicitName() string { return c.explicit }

// Ref returns a direct reference to this class.
func (c *Class) Ref() Ref { return ClassRef(c) }

// Declaration returns a copy of the explicit declaration entries.
func (c *Class) Declaration() Declaration {
	out := make(Declaration, len(c.deps))
	copy(out, c.deps)
	return out
}

func (c *Class) String() string {
	return c.Kind.String() + " " + c.Name
}

// newInstance runs the factory, converting panics and nil results to errors.
func (c *Class) newInstance() (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = goerrors.ConstructionFailed(c.Name, fmt.Errorf("panic: %v", r))
		}
	}()

	instance = c.factory()
	v := reflect.ValueOf(instance)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, goerrors.ConstructionFailed(c.Name, fmt.Errorf("factory returned nil"))
	}
	if v.Type() != c.Type {
		return nil, goerrors.ConstructionFailed(c.Name, fmt.Errorf("factory returned %T, expected %s", instance, c.Type))
	}
	return instance, nil
}

func validateClass(c *Class) error {
	if c == nil {
		return goerrors.InvalidClass("<nil>", "class is nil")
	}
	if c.factory == nil || c.Type == nil {
		return goerrors.InvalidClass(c.Name, "class was not built with Service or Controller")
	}
	if c.Kind == KindNone {
		return goerrors.InvalidClass(c.Name, "class carries no service or controller marker")
	}
	return nil
}

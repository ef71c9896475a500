package di

import (
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"
)

// InstanceName returns name with its first character lower-cased:
// "OrderService" becomes "orderService". The empty string maps to itself.
func InstanceName(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// Namer is implemented by types that carry their own registration key.
// ResolveKey returns ServiceName verbatim for direct references to such types.
type Namer interface {
	ServiceName() string
}

type refKind int

const (
	refNone refKind = iota
	refType
	refForward
	refKey
)

// Ref is a dependency reference: a direct type, a forward reference naming a
// type by string, or an explicit registration key.
type Ref struct {
	kind    refKind
	typ     reflect.Type
	forward string
	name    string
}

// TypeRef returns a direct reference to t.
func TypeRef(t reflect.Type) Ref {
	return Ref{kind: refType, typ: t}
}

// RefOf returns a direct reference to T.
func RefOf[T any]() Ref {
	return TypeRef(reflect.TypeFor[T]())
}

// ForwardRef returns a reference naming a type that may not be defined yet.
func ForwardRef(typeName string) Ref {
	return Ref{kind: refForward, forward: typeName}
}

// KeyRef returns a reference to an explicit registration key, used verbatim.
func KeyRef(key string) Ref {
	return Ref{kind: refKey, name: key}
}

// ClassRef returns a direct reference to the class's type that also carries
// the class's explicit name, if it was registered under one.
func ClassRef(c *Class) Ref {
	return Ref{kind: refType, typ: c.Type, name: c.explicit}
}

// IsForward reports whether r names its type by string.
func (r Ref) IsForward() bool { return r.kind == refForward }

// Type returns the referenced type for direct references, nil otherwise.
func (r Ref) Type() reflect.Type { return r.typ }

func (r Ref) String() string {
	switch r.kind {
	case refForward:
		return "forward(" + r.forward + ")"
	case refKey:
		return "key(" + r.name + ")"
	case refType:
		if r.typ == nil {
			return "type(<nil>)"
		}
		return "type(" + r.typ.String() + ")"
	default:
		return "ref(<none>)"
	}
}

// ResolveKey maps a dependency reference to the registration key to look up.
// A direct reference to a type described with Named resolves to that name.
// It never consults a registry and never fails.
func ResolveKey(ref Ref) string {
	switch ref.kind {
	case refForward:
		return InstanceName(ref.forward)
	case refKey:
		return ref.name
	case refType:
		if ref.name != "" {
			return ref.name
		}
		if ref.typ == nil {
			return ""
		}
		if name, ok := explicitNames.Load(structType(ref.typ)); ok {
			return name.(string)
		}
		if name, ok := declaredName(ref.typ); ok {
			return name
		}
		return InstanceName(typeName(ref.typ))
	default:
		return ""
	}
}

// explicitNames holds the name each type was described under with Named,
// keyed by the type with pointers removed. The last description wins.
var explicitNames sync.Map

func recordExplicitName(t reflect.Type, name string) {
	explicitNames.Store(structType(t), name)
}

func structType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// typeName is the declared name of t with any pointer indirection removed.
func typeName(t reflect.Type) string {
	return structType(t).Name()
}

var namerType = reflect.TypeFor[Namer]()

// declaredName asks a zero value of t for its ServiceName.
func declaredName(t reflect.Type) (name string, ok bool) {
	if t.Kind() == reflect.Interface {
		return "", false
	}

	var v reflect.Value
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(namerType):
		v = reflect.New(t.Elem())
	case t.Implements(namerType):
		v = reflect.Zero(t)
	case reflect.PointerTo(t).Implements(namerType):
		v = reflect.New(t)
	default:
		return "", false
	}

	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()
	name = v.Interface().(Namer).ServiceName()
	return name, name != ""
}

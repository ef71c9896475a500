package di

import (
	"reflect"
	"strings"
	"sync"
)

// ReservedPrefix marks members used for internal bookkeeping. Declarations
// whose member starts with it are never resolved.
const ReservedPrefix = "_"

const injectTag = "inject"

// Dependency is one declared member and the reference that should fill it.
type Dependency struct {
	Member string
	Ref    Ref
}

// Declaration is the ordered dependency set of a class.
type Declaration []Dependency

// Declarer is implemented by instances that declare dependencies in code
// instead of through struct tags.
type Declarer interface {
	Dependencies() Declaration
}

// DependencySetter is implemented by instances that assign their own
// dependencies. SetDependency returns false when member is not one it knows,
// in which case the container falls back to setting the exported field.
type DependencySetter interface {
	SetDependency(member string, value any) bool
}

// Initializer is the post-construction hook. Controllers implementing it are
// called exactly once, after all their dependencies have been injected.
type Initializer interface {
	Initialize() error
}

// declarationOf merges the class's explicit entries, the instance's Declarer
// entries and its tagged fields. The first entry for a member wins.
func declarationOf(class *Class, target any) Declaration {
	var sources []Declaration
	if class != nil {
		sources = append(sources, class.deps)
	}
	if d, ok := target.(Declarer); ok {
		sources = append(sources, d.Dependencies())
	}
	sources = append(sources, tagDeclaration(reflect.TypeOf(target)))

	seen := make(map[string]bool)
	var out Declaration
	for _, src := range sources {
		for _, dep := range src {
			if dep.Member == "" || strings.HasPrefix(dep.Member, ReservedPrefix) || seen[dep.Member] {
				continue
			}
			seen[dep.Member] = true
			out = append(out, dep)
		}
	}
	return out
}

var tagCache sync.Map // reflect.Type -> Declaration

// tagDeclaration reads `inject` tags from the exported fields of a struct or
// pointer-to-struct type. Supported forms:
//   - `inject:""`          direct reference to the field type
//   - `inject:"TypeName"`  forward reference
//   - `inject:"name=key"`  explicit registration key
//   - `inject:"-"`         skip
func tagDeclaration(t reflect.Type) Declaration {
	if t == nil {
		return nil
	}
	if cached, ok := tagCache.Load(t); ok {
		return cached.(Declaration)
	}

	st := structType(t)
	var decl Declaration
	if st.Kind() == reflect.Struct {
		for i := 0; i < st.NumField(); i++ {
			field := st.Field(i)
			tag, ok := field.Tag.Lookup(injectTag)
			if !ok || !field.IsExported() {
				continue
			}
			tag = strings.TrimSpace(tag)
			switch {
			case tag == "-":
				continue
			case tag == "":
				decl = append(decl, Dependency{Member: field.Name, Ref: TypeRef(field.Type)})
			case strings.HasPrefix(tag, "name="):
				decl = append(decl, Dependency{Member: field.Name, Ref: KeyRef(strings.TrimPrefix(tag, "name="))})
			default:
				decl = append(decl, Dependency{Member: field.Name, Ref: ForwardRef(tag)})
			}
		}
	}

	actual, _ := tagCache.LoadOrStore(t, decl)
	return actual.(Declaration)
}

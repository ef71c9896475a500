package di

import (
	"context"
	"fmt"
	"reflect"

	goerrors "github.com/kbukum/wirekit/errors"
)

// MissingDependency is a declared member whose key had no instance.
type MissingDependency struct {
	Member string `json:"member"`
	Key    string `json:"key"`
}

// InjectionReport describes one Inject call.
type InjectionReport struct {
	Target     string              `json:"target"`
	Injected   []string            `json:"injected,omitempty"`
	Missing    []MissingDependency `json:"missing,omitempty"`
	Mismatched []string            `json:"mismatched,omitempty"`
}

// Complete reports whether every declared dependency was assigned.
func (r InjectionReport) Complete() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0
}

// Inject assigns every declared dependency of target that is registered.
// Missing dependencies leave the member untouched and are reported, never
// treated as fatal. Inject never changes the registry and may be called
// repeatedly with the same assignments; each call emits its own diagnostics
// and injection metrics.
func (c *Container) Inject(target any) InjectionReport {
	return c.inject(context.Background(), nil, target)
}

func (c *Container) inject(ctx context.Context, class *Class, target any) InjectionReport {
	report := InjectionReport{Target: TargetName(target)}
	if target == nil {
		return report
	}

	for _, dep := range declarationOf(class, target) {
		key := ResolveKey(dep.Ref)
		value, ok := c.registry.Get(key)
		if !ok {
			report.Missing = append(report.Missing, MissingDependency{Member: dep.Member, Key: key})
			c.emit(Diagnostic{
				Kind: DiagMissing, Key: key, Target: report.Target, Member: dep.Member,
				Message: goerrors.MissingDependency(report.Target, dep.Member, key).Message,
			})
			continue
		}

		if err := assign(target, dep.Member, value); err != nil {
			report.Mismatched = append(report.Mismatched, dep.Member)
			c.emit(Diagnostic{
				Kind: DiagMismatch, Key: key, Target: report.Target, Member: dep.Member,
				Message: err.Error(),
			})
			continue
		}

		report.Injected = append(report.Injected, dep.Member)
		c.emit(Diagnostic{
			Kind: DiagInjected, Key: key, Target: report.Target, Member: dep.Member,
			Message: fmt.Sprintf("injected %s into %s.%s", key, report.Target, dep.Member),
		})
	}

	c.tel.RecordInjection(ctx, report.Target, len(report.Injected), len(report.Missing))
	return report
}

// assign sets member on target through DependencySetter or, failing that,
// the exported struct field of the same name.
func assign(target any, member string, value any) error {
	if setter, ok := target.(DependencySetter); ok && setter.SetDependency(member, value) {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return goerrors.New(goerrors.ErrCodeTypeMismatch,
			fmt.Sprintf("cannot assign %s on %T: target must be a pointer to struct", member, target))
	}

	field := v.Elem().FieldByName(member)
	if !field.IsValid() || !field.CanSet() {
		return goerrors.New(goerrors.ErrCodeTypeMismatch,
			fmt.Sprintf("%T has no settable field %s", target, member))
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() || !val.Type().AssignableTo(field.Type()) {
		return goerrors.New(goerrors.ErrCodeTypeMismatch,
			fmt.Sprintf("cannot assign %T to %T.%s of type %s", value, target, member, field.Type()))
	}

	field.Set(val)
	return nil
}

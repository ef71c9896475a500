package di

import (
	"fmt"

	goerrors "github.com/kbukum/wirekit/errors"
)

// MustResolve resolves a component with type safety, panics on error.
//
// Example:
//
//	billing := di.MustResolve[*BillingService](c, "billingService")
func MustResolve[T any](c *Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", key, err))
	}
	return result
}

// Resolve resolves a component with type safety. It returns a NOT_FOUND
// error when nothing is registered under key and TYPE_MISMATCH when the
// instance is not a T.
//
// Example:
//
//	billing, err := di.Resolve[*BillingService](c, "billingService")
//	if err != nil {
//	    return fmt.Errorf("failed to get billing service: %w", err)
//	}
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	instance, ok := c.Get(key)
	if !ok {
		return zero, goerrors.NotFound("component", key)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, goerrors.TypeMismatch(key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a component, returns zero value and false if not found.
// Use this when a dependency is optional.
func TryResolve[T any](c *Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	return result, err == nil
}

// ResolveRef resolves T by the key its type maps to.
//
//	orders, ok := di.ResolveRef[*OrderService](c) // key "orderService"
func ResolveRef[T any](c *Container) (T, bool) {
	return TryResolve[T](c, ResolveKey(RefOf[T]()))
}

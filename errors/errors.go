package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal indicates the operation was rejected rather than degraded.
	Fatal bool `json:"fatal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic fatal detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// --- Common Error Constructors ---

// MissingDependency reports a member whose dependency key has no instance.
func MissingDependency(target, member, key string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingDependency,
		Message: fmt.Sprintf("no service registered under %q for %s.%s", key, target, member),
		Details: map[string]any{"target": target, "member": member, "key": key},
	}
}

// DuplicateRegistration reports that key now refers to a different instance.
func DuplicateRegistration(key string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateRegistration,
		Message: fmt.Sprintf("service %q was registered again; previous instance replaced", key),
		Details: map[string]any{"key": key},
	}
}

// TypeMismatch reports a value whose type does not fit where it was going.
func TypeMismatch(key string, got, want any) *AppError {
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("component %s is %T, expected %T", key, got, want),
		Details: map[string]any{"key": key},
	}
}

// ConstructionFailed reports a factory that could not produce an instance.
func ConstructionFailed(class string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeConstructionFailed,
		Message: fmt.Sprintf("failed to construct %s", class),
		Details: map[string]any{"class": class},
		Cause:   cause,
	}
}

// PostInitFailed reports a controller whose Initialize hook returned an error.
func PostInitFailed(class string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodePostInitFailed,
		Message: fmt.Sprintf("post-construction hook of %s failed", class),
		Details: map[string]any{"class": class},
		Cause:   cause,
	}
}

// NotFound reports a lookup for a key that is not registered.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not registered: %s", resource, id),
		Details: details,
	}
}

// MixedStrategy reports an attempt to switch wiring strategy on a container.
func MixedStrategy(current, requested string) *AppError {
	return &AppError{
		Code:    ErrCodeMixedStrategy,
		Message: fmt.Sprintf("container is locked to the %s strategy; %s is not allowed", current, requested),
		Fatal:   true,
		Details: map[string]any{"current": current, "requested": requested},
	}
}

// UnknownNamespace reports a scan request for a namespace the catalog cannot find.
func UnknownNamespace(namespace string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownNamespace,
		Message: fmt.Sprintf("namespace %q is not known to the catalog", namespace),
		Fatal:   true,
		Details: map[string]any{"namespace": namespace},
	}
}

// InvalidClass reports a class descriptor that cannot take part in wiring.
func InvalidClass(class, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidClass,
		Message: fmt.Sprintf("invalid class %s: %s", class, reason),
		Fatal:   true,
		Details: map[string]any{"class": class},
	}
}

// InvalidConfig creates a new AppError for configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: message,
		Fatal:   true,
	}
}

// Internal creates a new AppError for an unexpected error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "an unexpected error occurred",
		Fatal:   true,
		Cause:   cause,
	}
}

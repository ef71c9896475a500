package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Wiring errors (recoverable: the pass continues)
const (
	// ErrCodeMissingDependency indicates a declared dependency had no registry entry.
	ErrCodeMissingDependency ErrorCode = "MISSING_DEPENDENCY"
	// ErrCodeDuplicateRegistration indicates a key was registered twice.
	ErrCodeDuplicateRegistration ErrorCode = "DUPLICATE_REGISTRATION"
	// ErrCodeTypeMismatch indicates a resolved value could not be assigned or asserted.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeConstructionFailed indicates a class factory panicked or returned nil.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
	// ErrCodePostInitFailed indicates a controller's Initialize hook failed.
	ErrCodePostInitFailed ErrorCode = "POST_INIT_FAILED"
	// ErrCodeNotFound indicates a requested key or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Configuration errors (fatal: reject before doing any work)
const (
	// ErrCodeMixedStrategy indicates both wiring strategies were used on one container.
	ErrCodeMixedStrategy ErrorCode = "MIXED_STRATEGY"
	// ErrCodeUnknownNamespace indicates a scan was requested for a namespace the catalog does not know.
	ErrCodeUnknownNamespace ErrorCode = "UNKNOWN_NAMESPACE"
	// ErrCodeInvalidClass indicates a class descriptor cannot be constructed.
	ErrCodeInvalidClass ErrorCode = "INVALID_CLASS"
	// ErrCodeInvalidConfig indicates the configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeMixedStrategy:    true,
	ErrCodeUnknownNamespace: true,
	ErrCodeInvalidClass:     true,
	ErrCodeInvalidConfig:    true,
	ErrCodeInternal:         true,
}

// IsFatalCode returns true if the error code should abort the current operation.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}

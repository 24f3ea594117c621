// Package errors defines the error taxonomy for schema construction.
//
// The comparison engine itself never returns a Go error from a comparison
// (runtime kind mismatches are encoded in the result tree, per the failure
// semantics described alongside the engine); only schema construction fails
// fast, with an EvalError naming the offending field path.
package errors

import "fmt"

// ErrorType identifies the kind of schema construction failure.
type ErrorType int

const (
	ErrorTypeInvalidThreshold ErrorType = iota
	ErrorTypeInvalidWeight
	ErrorTypeInvalidMatchThreshold
	ErrorTypeForbiddenComparator
	ErrorTypeMissingComparator
	ErrorTypeUnknownComparator
	ErrorTypeDuplicateField
	ErrorTypeRecursionDepth
	ErrorTypeKindMismatch
	ErrorTypeNilSchema
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidThreshold:
		return "INVALID_THRESHOLD"
	case ErrorTypeInvalidWeight:
		return "INVALID_WEIGHT"
	case ErrorTypeInvalidMatchThreshold:
		return "INVALID_MATCH_THRESHOLD"
	case ErrorTypeForbiddenComparator:
		return "FORBIDDEN_COMPARATOR"
	case ErrorTypeMissingComparator:
		return "MISSING_COMPARATOR"
	case ErrorTypeUnknownComparator:
		return "UNKNOWN_COMPARATOR"
	case ErrorTypeDuplicateField:
		return "DUPLICATE_FIELD"
	case ErrorTypeRecursionDepth:
		return "RECURSION_DEPTH"
	case ErrorTypeKindMismatch:
		return "KIND_MISMATCH"
	case ErrorTypeNilSchema:
		return "NIL_SCHEMA"
	default:
		return "UNKNOWN"
	}
}

// EvalError is the single error type raised by schema construction.
type EvalError struct {
	Type      ErrorType
	Message   string
	FieldPath string
	Cause     error
}

func (e *EvalError) Error() string {
	path := e.FieldPath
	if path == "" {
		path = "<root>"
	}
	switch e.Type {
	case ErrorTypeInvalidThreshold:
		return fmt.Sprintf("schema: invalid threshold at %s: %s", path, e.Message)
	case ErrorTypeInvalidWeight:
		return fmt.Sprintf("schema: invalid weight at %s: %s", path, e.Message)
	case ErrorTypeInvalidMatchThreshold:
		return fmt.Sprintf("schema: invalid match_threshold at %s: %s", path, e.Message)
	case ErrorTypeForbiddenComparator:
		return fmt.Sprintf("schema: field %s is a list-of-record field and must not carry a comparator or threshold", path)
	case ErrorTypeMissingComparator:
		return fmt.Sprintf("schema: primitive field %s must carry a comparator", path)
	case ErrorTypeUnknownComparator:
		return fmt.Sprintf("schema: unknown comparator at %s: %s", path, e.Message)
	case ErrorTypeDuplicateField:
		return fmt.Sprintf("schema: duplicate field name: %s", path)
	case ErrorTypeRecursionDepth:
		return fmt.Sprintf("schema: recursion depth exceeded at %s", path)
	case ErrorTypeKindMismatch:
		return fmt.Sprintf("schema: kind mismatch at %s: %s", path, e.Message)
	case ErrorTypeNilSchema:
		return fmt.Sprintf("schema: nil schema at %s", path)
	default:
		return fmt.Sprintf("schema: error at %s: %s", path, e.Message)
	}
}

func (e *EvalError) Unwrap() error {
	return e.Cause
}

func (e *EvalError) Is(target error) bool {
	if target == nil {
		return false
	}
	other, ok := target.(*EvalError)
	if !ok {
		return false
	}
	return e.Type == other.Type && e.FieldPath == other.FieldPath
}

// New constructs an EvalError with no field path or wrapped cause.
func New(errType ErrorType, message string) *EvalError {
	return &EvalError{Type: errType, Message: message}
}

// At annotates err with a field path. If err is already an *EvalError, it is
// returned itself with its path set only if that path is empty, so the
// deepest offending field wins as the error propagates up through nested
// schema construction; any other error is wrapped in a new EvalError.
func At(fieldPath string, err error) *EvalError {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EvalError); ok {
		if ee.FieldPath == "" {
			ee.FieldPath = fieldPath
		}
		return ee
	}
	return &EvalError{Type: ErrorTypeKindMismatch, Message: err.Error(), FieldPath: fieldPath, Cause: err}
}

func NewInvalidThreshold(fieldPath string, message string) *EvalError {
	return &EvalError{Type: ErrorTypeInvalidThreshold, Message: message, FieldPath: fieldPath}
}

func NewInvalidWeight(fieldPath string, message string) *EvalError {
	return &EvalError{Type: ErrorTypeInvalidWeight, Message: message, FieldPath: fieldPath}
}

func NewInvalidMatchThreshold(fieldPath string, message string) *EvalError {
	return &EvalError{Type: ErrorTypeInvalidMatchThreshold, Message: message, FieldPath: fieldPath}
}

func NewForbiddenComparator(fieldPath string) *EvalError {
	return &EvalError{Type: ErrorTypeForbiddenComparator, FieldPath: fieldPath}
}

func NewMissingComparator(fieldPath string) *EvalError {
	return &EvalError{Type: ErrorTypeMissingComparator, FieldPath: fieldPath}
}

func NewUnknownComparator(fieldPath, name string) *EvalError {
	return &EvalError{Type: ErrorTypeUnknownComparator, Message: name, FieldPath: fieldPath}
}

func NewDuplicateField(fieldPath string) *EvalError {
	return &EvalError{Type: ErrorTypeDuplicateField, FieldPath: fieldPath}
}

func NewRecursionDepth(fieldPath string) *EvalError {
	return &EvalError{Type: ErrorTypeRecursionDepth, FieldPath: fieldPath}
}

func NewKindMismatch(fieldPath, message string) *EvalError {
	return &EvalError{Type: ErrorTypeKindMismatch, Message: message, FieldPath: fieldPath}
}

func NewNilSchema(fieldPath string) *EvalError {
	return &EvalError{Type: ErrorTypeNilSchema, FieldPath: fieldPath}
}

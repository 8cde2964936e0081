package errors

import (
	"errors"

	"github.com/ygrebnov/callshape/constants"
)

const Namespace = constants.Namespace

// Sentinel errors. Use errors.Is to match.
var (
	ErrClassification  = errors.New(Namespace + ": classification failed")
	ErrInstantiation   = errors.New(Namespace + ": instantiation failed")
	ErrArityExceeded   = errors.New(Namespace + ": arity exceeds supported maximum")
	ErrArityMismatch   = errors.New(Namespace + ": type argument count does not match template arity")
	ErrMissingReturn   = errors.New(Namespace + ": function template requires a return type")
	ErrNilTypeArgument = errors.New(Namespace + ": nil type argument")
	ErrUnknownTemplate = errors.New(Namespace + ": unknown callable template")
	ErrMultipleReturns = errors.New(Namespace + ": more than one return value")
	ErrKeyTooLong      = errors.New(Namespace + ": signature too long for a lookup key")
	ErrNotFunc         = errors.New(Namespace + ": value is not a function")
	ErrMethodNotFound  = errors.New(Namespace + ": method not found")
	ErrInvalidReceiver = errors.New(Namespace + ": invalid receiver")
	ErrShapeMismatch   = errors.New(Namespace + ": callable shape does not match method")
	ErrInvalidCatalog  = errors.New(Namespace + ": event source and payload types must be non-nil and distinct")
	ErrInvalidConfig   = errors.New(Namespace + ": invalid configuration")
	ErrSeedSupplier    = errors.New(Namespace + ": seed supplier panicked")
	ErrWatcherReused   = errors.New(Namespace + ": config watcher can only be started once")
)

// ErrorField is a strongly-typed key used for structured error context (e.g. log filtering).
type ErrorField string

// ErrorFieldNamespace for all exported error field keys.
const ErrorFieldNamespace = constants.ErrorFieldNamespace

// Internal hierarchical segments used to build dotted keys.
const (
	_errorFieldMethodSegment   = ".method."
	_errorFieldTemplateSegment = ".template."
	_errorFieldSeedSegment     = ".seed."
)

// Exported structured error field keys
const (
	ErrorFieldMethodName    ErrorField = ErrorFieldNamespace + _errorFieldMethodSegment + "name"           // callshape.method.name
	ErrorFieldDeclaringType ErrorField = ErrorFieldNamespace + _errorFieldMethodSegment + "declaring_type" // callshape.method.declaring_type
	ErrorFieldReturns       ErrorField = ErrorFieldNamespace + _errorFieldMethodSegment + "returns"        // callshape.method.returns
	ErrorFieldReceiverType  ErrorField = ErrorFieldNamespace + _errorFieldMethodSegment + "receiver_type"  // callshape.method.receiver_type
)

const (
	ErrorFieldTemplate    ErrorField = ErrorFieldNamespace + _errorFieldTemplateSegment + "name"     // callshape.template.name
	ErrorFieldArity       ErrorField = ErrorFieldNamespace + _errorFieldTemplateSegment + "arity"    // callshape.template.arity
	ErrorFieldMaxArity    ErrorField = ErrorFieldNamespace + _errorFieldTemplateSegment + "max"      // callshape.template.max
	ErrorFieldArgCount    ErrorField = ErrorFieldNamespace + _errorFieldTemplateSegment + "args"     // callshape.template.args
	ErrorFieldArgPosition ErrorField = ErrorFieldNamespace + _errorFieldTemplateSegment + "position" // callshape.template.position
)

const (
	ErrorFieldSeedType ErrorField = ErrorFieldNamespace + _errorFieldSeedSegment + "type" // callshape.seed.type
)

const (
	ErrorFieldCallable ErrorField = ErrorFieldNamespace + ".callable"
	ErrorFieldPath     ErrorField = ErrorFieldNamespace + ".path"
	ErrorFieldCause    ErrorField = ErrorFieldNamespace + ".cause"
)

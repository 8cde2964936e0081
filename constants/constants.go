package constants

const Namespace = "callshape"

// ErrorFieldNamespace for all exported error field keys.
const ErrorFieldNamespace = Namespace

// MaxArity is the largest parameter count a synthesized callable may have.
const MaxArity = 16

// MaxKeyLen is the longest signature a lookup key can hold: MaxArity parameters plus a return type.
const MaxKeyLen = MaxArity + 1

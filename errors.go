package callshape

import (
	"fmt"

	"github.com/ygrebnov/callshape/errors"
)

// ClassificationError reports a method no rule could classify.
// It unwraps to errors.ErrClassification and to the reason, so errors.Is/As work on both.
type ClassificationError struct {
	Method Method
	Err    error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%s: cannot classify %s: %v", errors.Namespace, describe(e.Method), e.Err)
}

func (e *ClassificationError) Unwrap() []error { return []error{errors.ErrClassification, e.Err} }

func describe(m Method) string {
	if m.DeclaringType == nil {
		return m.String()
	}
	return typeName(m.DeclaringType, true) + "." + m.String()
}

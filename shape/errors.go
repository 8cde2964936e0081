package shape

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ygrebnov/callshape/errors"
)

// InstantiationError reports a template that could not be instantiated with the given type arguments.
// It unwraps to errors.ErrInstantiation and to the specific reason.
type InstantiationError struct {
	Template Template
	Args     []reflect.Type
	Err      error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("%s: cannot instantiate %s[%s]: %v", errors.Namespace, e.Template, typeList(e.Args), e.Err)
}

func (e *InstantiationError) Unwrap() []error { return []error{errors.ErrInstantiation, e.Err} }

func typeList(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		if t == nil {
			names[i] = "<nil>"
			continue
		}
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

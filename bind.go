package callshape

import (
	"reflect"
	"strconv"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/errors"
	"github.com/ygrebnov/callshape/shape"
)

// Bind produces a live value of type c.Type() that invokes m. Instance methods are
// bound to receiver, whose type must be assignable to m.DeclaringType; static methods
// ignore it. Calling the returned value panics exactly when calling m would.
func Bind(c shape.Callable, m Method, receiver any) (reflect.Value, error) {
	if err := matchShape(c, m); err != nil {
		return reflect.Value{}, err
	}

	target, err := bindTarget(m, receiver)
	if err != nil {
		return reflect.Value{}, err
	}

	variadic := m.Variadic
	return reflect.MakeFunc(c.Type(), func(args []reflect.Value) []reflect.Value {
		if variadic {
			return target.CallSlice(args)
		}
		return target.Call(args)
	}), nil
}

// Canonicalize re-types the func value fn as its synthesized Action or Func shape.
// Named func types and variadic funcs come back as plain, non-variadic func values.
func Canonicalize(fn any) (reflect.Value, error) {
	m, err := FuncMethod("", fn)
	if err != nil {
		return reflect.Value{}, err
	}
	if len(m.Returns) > 1 {
		return reflect.Value{}, &ClassificationError{
			Method: m,
			Err: errorc.With(
				errors.ErrMultipleReturns,
				errorc.String(errors.ErrorFieldMethodName, m.Name),
				errorc.String(errors.ErrorFieldReturns, strconv.Itoa(len(m.Returns))),
			),
		}
	}

	c, err := synthesize(shape.DefaultCatalog(), m.Params, m.Return())
	if err != nil {
		return reflect.Value{}, &ClassificationError{Method: m, Err: err}
	}

	v := m.Func
	switch {
	case v.Type() == c.Type():
		return v, nil
	case !m.Variadic:
		return v.Convert(c.Type()), nil
	default:
		return Bind(c, m, nil)
	}
}

func matchShape(c shape.Callable, m Method) error {
	mismatch := func() error {
		return errorc.With(
			errors.ErrShapeMismatch,
			errorc.String(errors.ErrorFieldCallable, c.String()),
			errorc.String(errors.ErrorFieldMethodName, m.QualifiedName()),
		)
	}

	if c.IsZero() || len(m.Returns) > 1 {
		return mismatch()
	}
	params := c.Params()
	if len(params) != len(m.Params) {
		return mismatch()
	}
	for i, p := range params {
		if p != m.Params[i] {
			return mismatch()
		}
	}
	if c.Return() != m.Return() {
		return mismatch()
	}
	return nil
}

func bindTarget(m Method, receiver any) (reflect.Value, error) {
	if m.Static {
		if !m.Func.IsValid() || m.Func.Kind() != reflect.Func || m.Func.IsNil() {
			return reflect.Value{}, errorc.With(
				errors.ErrNotFunc,
				errorc.String(errors.ErrorFieldMethodName, m.Name),
			)
		}
		return m.Func, nil
	}

	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() || isNilPointer(rv) {
		return reflect.Value{}, errorc.With(
			errors.ErrInvalidReceiver,
			errorc.String(errors.ErrorFieldMethodName, m.QualifiedName()),
			errorc.String(errors.ErrorFieldReceiverType, "<nil>"),
		)
	}
	if m.DeclaringType != nil && !rv.Type().AssignableTo(m.DeclaringType) {
		return reflect.Value{}, errorc.With(
			errors.ErrInvalidReceiver,
			errorc.String(errors.ErrorFieldMethodName, m.QualifiedName()),
			errorc.String(errors.ErrorFieldReceiverType, rv.Type().String()),
		)
	}

	mv := rv.MethodByName(m.Name)
	if !mv.IsValid() {
		return reflect.Value{}, errorc.With(
			errors.ErrMethodNotFound,
			errorc.String(errors.ErrorFieldMethodName, m.Name),
			errorc.String(errors.ErrorFieldDeclaringType, rv.Type().String()),
		)
	}
	return mv, nil
}

func isNilPointer(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

package shape

import (
	"reflect"
	"strconv"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/constants"
	"github.com/ygrebnov/callshape/errors"
	"github.com/ygrebnov/callshape/internal/signature"
)

var (
	eventSourceType = reflect.TypeOf((*EventSource)(nil)).Elem()
	eventDataType   = reflect.TypeOf(EventData{})
)

var defaultCatalog = &Catalog{source: eventSourceType, data: eventDataType}

// Catalog is the closed set of callable shapes. It fixes the two leading parameter
// types that identify the event handler shape.
type Catalog struct {
	source reflect.Type
	data   reflect.Type
}

// DefaultCatalog returns the catalog whose event handler shape is (EventSource, EventData, T).
func DefaultCatalog() *Catalog { return defaultCatalog }

// NewCatalog returns a catalog whose event handler shape is (source, data, T).
func NewCatalog(source, data reflect.Type) (*Catalog, error) {
	if source == nil || data == nil || source == data {
		return nil, errors.ErrInvalidCatalog
	}
	return &Catalog{source: source, data: data}, nil
}

// Source returns the event source type.
func (c *Catalog) Source() reflect.Type { return c.source }

// Data returns the event payload type.
func (c *Catalog) Data() reflect.Type { return c.data }

// IsEventShape reports whether params is exactly (source, data, T) for some T.
func (c *Catalog) IsEventShape(params []reflect.Type) bool {
	return len(params) == 3 && params[0] == c.source && params[1] == c.data
}

// Instantiate instantiates t with args using the default catalog.
func Instantiate(t Template, args ...reflect.Type) (Callable, error) {
	return defaultCatalog.Instantiate(t, args...)
}

// Instantiate produces the concrete callable for template t and type arguments args.
// For KindFunc, args holds the parameter types followed by the return type.
func (c *Catalog) Instantiate(t Template, args ...reflect.Type) (Callable, error) {
	if err := c.check(t, args); err != nil {
		return Callable{}, &InstantiationError{Template: t, Args: append([]reflect.Type(nil), args...), Err: err}
	}

	var typ reflect.Type
	switch t.Kind {
	case KindAction:
		typ = reflect.FuncOf(args, nil, false)
	case KindFunc:
		n := len(args) - 1
		typ = reflect.FuncOf(args[:n], args[n:], false)
	case KindEventHandler:
		typ = reflect.FuncOf([]reflect.Type{c.source, c.data, args[0]}, nil, false)
	}

	key, err := signature.NewKey(args...)
	if err != nil {
		// unreachable: arity was checked above
		return Callable{}, &InstantiationError{Template: t, Args: append([]reflect.Type(nil), args...), Err: err}
	}
	return Callable{template: t, args: key, typ: typ}, nil
}

func (c *Catalog) check(t Template, args []reflect.Type) error {
	switch t.Kind {
	case KindAction, KindFunc, KindEventHandler:
	default:
		return errorc.With(
			errors.ErrUnknownTemplate,
			errorc.String(errors.ErrorFieldTemplate, t.Kind.String()),
		)
	}

	if t.Arity < 0 || t.Arity > constants.MaxArity {
		return errorc.With(
			errors.ErrArityExceeded,
			errorc.String(errors.ErrorFieldTemplate, t.String()),
			errorc.String(errors.ErrorFieldArity, strconv.Itoa(t.Arity)),
			errorc.String(errors.ErrorFieldMaxArity, strconv.Itoa(constants.MaxArity)),
		)
	}

	if t.Kind == KindFunc && len(args) == 0 {
		return errorc.With(
			errors.ErrMissingReturn,
			errorc.String(errors.ErrorFieldTemplate, t.String()),
		)
	}

	if t.Kind == KindEventHandler && t.Arity != 1 || len(args) != t.typeArgCount() {
		return errorc.With(
			errors.ErrArityMismatch,
			errorc.String(errors.ErrorFieldTemplate, t.String()),
			errorc.String(errors.ErrorFieldArgCount, strconv.Itoa(len(args))),
		)
	}

	for i, a := range args {
		if a == nil {
			return errorc.With(
				errors.ErrNilTypeArgument,
				errorc.String(errors.ErrorFieldTemplate, t.String()),
				errorc.String(errors.ErrorFieldArgPosition, strconv.Itoa(i)),
			)
		}
	}
	return nil
}

package shape

import (
	"reflect"

	"github.com/ygrebnov/callshape/internal/signature"
)

// Callable is a template instantiated with concrete type arguments.
// Callables are comparable: two instantiations of the same template with the same
// type arguments are ==. The zero Callable means "no callable".
type Callable struct {
	template Template
	args     signature.Key
	typ      reflect.Type
}

// Template returns the shape this callable was instantiated from.
func (c Callable) Template() Template { return c.template }

// Args returns the type arguments in order. For KindFunc the return type is last.
func (c Callable) Args() []reflect.Type { return c.args.Types() }

// Type returns the synthesized function type, or nil for the zero Callable.
func (c Callable) Type() reflect.Type { return c.typ }

// IsZero reports whether c is the zero Callable.
func (c Callable) IsZero() bool { return c.typ == nil }

// Params returns the parameter types of the synthesized function.
func (c Callable) Params() []reflect.Type {
	if c.typ == nil {
		return nil
	}
	params := make([]reflect.Type, c.typ.NumIn())
	for i := range params {
		params[i] = c.typ.In(i)
	}
	return params
}

// Return returns the result type, or nil when the callable returns nothing.
func (c Callable) Return() reflect.Type {
	if c.typ == nil || c.typ.NumOut() == 0 {
		return nil
	}
	return c.typ.Out(0)
}

func (c Callable) String() string {
	if c.typ == nil {
		return "<none>"
	}
	return c.template.String() + "[" + typeList(c.args.Types()) + "]"
}

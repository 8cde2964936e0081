package shape

import "strconv"

// Kind tags one of the closed families of callable shapes.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindAction takes Arity parameters and returns nothing.
	KindAction
	// KindFunc takes Arity parameters and returns exactly one value, carried as the last type argument.
	KindFunc
	// KindEventHandler takes an event source, an event payload and one generic argument.
	KindEventHandler
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "Action"
	case KindFunc:
		return "Func"
	case KindEventHandler:
		return "EventHandler"
	default:
		return "Invalid"
	}
}

// Template is a generic callable shape. For KindEventHandler the arity is always 1:
// the handler has a single type argument.
type Template struct {
	Kind  Kind
	Arity int
}

// Action returns the shape of callables with n parameters and no result.
func Action(n int) Template { return Template{Kind: KindAction, Arity: n} }

// Function returns the shape of callables with n parameters and one result.
func Function(n int) Template { return Template{Kind: KindFunc, Arity: n} }

// EventHandler returns the event handler shape.
func EventHandler() Template { return Template{Kind: KindEventHandler, Arity: 1} }

// typeArgCount is the number of type arguments an instantiation of t takes.
func (t Template) typeArgCount() int {
	if t.Kind == KindFunc {
		return t.Arity + 1
	}
	return t.Arity
}

func (t Template) String() string {
	return t.Kind.String() + "<" + strconv.Itoa(t.Arity) + ">"
}

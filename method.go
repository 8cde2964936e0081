package callshape

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/errors"
)

// Method describes a method or free function to classify.
type Method struct {
	Name string
	// DeclaringType is the receiver type for instance methods; nil for free functions.
	DeclaringType reflect.Type
	Params        []reflect.Type // receiver excluded
	Returns       []reflect.Type
	Static        bool
	Variadic      bool
	// Func is the underlying callable member. For instance methods declared on
	// concrete types it takes the receiver as its first argument; it is invalid for
	// methods of interface types. Only the binder uses it.
	Func reflect.Value
}

// Return returns the single result type, or nil when the method returns nothing.
// It also returns nil for methods with several results, which never classify.
func (m Method) Return() reflect.Type {
	if len(m.Returns) != 1 {
		return nil
	}
	return m.Returns[0]
}

// QualifiedName returns Type.Name for methods and Name for free functions.
func (m Method) QualifiedName() string {
	if m.DeclaringType == nil {
		return m.Name
	}
	return typeName(m.DeclaringType, true) + "." + m.Name
}

func (m Method) String() string {
	return signatureString(m, true)
}

// MethodsOf returns descriptors for the exported methods in t's method set.
func MethodsOf(t reflect.Type) []Method {
	if t == nil {
		return nil
	}
	methods := make([]Method, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		rm := t.Method(i)
		if !rm.IsExported() {
			continue
		}
		methods = append(methods, methodOf(t, rm))
	}
	return methods
}

// MethodByName returns the descriptor of the exported method name of t.
func MethodByName(t reflect.Type, name string) (Method, error) {
	if t != nil {
		if rm, ok := t.MethodByName(name); ok && rm.IsExported() {
			return methodOf(t, rm), nil
		}
	}
	return Method{}, errorc.With(
		errors.ErrMethodNotFound,
		errorc.String(errors.ErrorFieldMethodName, name),
		errorc.String(errors.ErrorFieldDeclaringType, typeName(t, true)),
	)
}

// FuncMethod describes the free function fn as a static method.
// When name is empty the runtime function name is used.
func FuncMethod(name string, fn any) (Method, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Method{}, errorc.With(
			errors.ErrNotFunc,
			errorc.String(errors.ErrorFieldMethodName, name),
			errorc.String(errors.ErrorFieldCallable, typeName(reflect.TypeOf(fn), true)),
		)
	}
	if name == "" {
		name = funcName(v)
	}

	ft := v.Type()
	return Method{
		Name:     name,
		Params:   ins(ft, 0),
		Returns:  outs(ft),
		Static:   true,
		Variadic: ft.IsVariadic(),
		Func:     v,
	}, nil
}

func methodOf(t reflect.Type, rm reflect.Method) Method {
	// Method types of interfaces carry no receiver.
	skip := 1
	if t.Kind() == reflect.Interface {
		skip = 0
	}
	return Method{
		Name:          rm.Name,
		DeclaringType: t,
		Params:        ins(rm.Type, skip),
		Returns:       outs(rm.Type),
		Variadic:      rm.Type.IsVariadic(),
		Func:          rm.Func,
	}
}

func ins(ft reflect.Type, skip int) []reflect.Type {
	params := make([]reflect.Type, 0, ft.NumIn()-skip)
	for i := skip; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	return params
}

func outs(ft reflect.Type) []reflect.Type {
	returns := make([]reflect.Type, ft.NumOut())
	for i := range returns {
		returns[i] = ft.Out(i)
	}
	return returns
}

func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	path := f.Name()
	return path[strings.LastIndex(path, "/")+1:]
}

// typeName renders t as pkg.T when short is set, and as import/path.T otherwise.
// In the long form every named type inside a composite is qualified.
func typeName(t reflect.Type, short bool) string {
	if t == nil {
		return "<nil>"
	}
	if short {
		return t.String()
	}
	var b strings.Builder
	writeLongName(&b, t)
	return b.String()
}

func writeLongName(b *strings.Builder, t reflect.Type) {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			b.WriteString(t.String())
			return
		}
		b.WriteString(t.PkgPath())
		b.WriteByte('.')
		b.WriteString(t.Name())
		return
	}

	switch t.Kind() {
	case reflect.Pointer:
		b.WriteByte('*')
		writeLongName(b, t.Elem())
	case reflect.Slice:
		b.WriteString("[]")
		writeLongName(b, t.Elem())
	case reflect.Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len()))
		b.WriteByte(']')
		writeLongName(b, t.Elem())
	case reflect.Map:
		b.WriteString("map[")
		writeLongName(b, t.Key())
		b.WriteByte(']')
		writeLongName(b, t.Elem())
	case reflect.Chan:
		elem := t.Elem()
		switch t.ChanDir() {
		case reflect.RecvDir:
			b.WriteString("<-chan ")
		case reflect.SendDir:
			b.WriteString("chan<- ")
		default:
			b.WriteString("chan ")
		}
		// chan (<-chan T) needs parentheses to stay unambiguous.
		if t.ChanDir() == reflect.BothDir && elem.Name() == "" && elem.Kind() == reflect.Chan && elem.ChanDir() == reflect.RecvDir {
			b.WriteByte('(')
			writeLongName(b, elem)
			b.WriteByte(')')
			return
		}
		writeLongName(b, elem)
	case reflect.Func:
		b.WriteString("func(")
		for i := 0; i < t.NumIn(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			if t.IsVariadic() && i == t.NumIn()-1 {
				b.WriteString("...")
				writeLongName(b, t.In(i).Elem())
				continue
			}
			writeLongName(b, t.In(i))
		}
		b.WriteByte(')')
		switch t.NumOut() {
		case 0:
		case 1:
			b.WriteByte(' ')
			writeLongName(b, t.Out(0))
		default:
			b.WriteString(" (")
			for i := 0; i < t.NumOut(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				writeLongName(b, t.Out(i))
			}
			b.WriteByte(')')
		}
	default:
		// Unnamed structs and interfaces keep their literal form.
		b.WriteString(t.String())
	}
}

func signatureString(m Method, short bool) string {
	var b strings.Builder
	if m.Static {
		b.WriteString("static ")
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if m.Variadic && i == len(m.Params)-1 && p != nil && p.Kind() == reflect.Slice {
			b.WriteString("...")
			b.WriteString(typeName(p.Elem(), short))
			continue
		}
		b.WriteString(typeName(p, short))
	}
	b.WriteByte(')')
	switch len(m.Returns) {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(typeName(m.Returns[0], short))
	default:
		b.WriteString(" (")
		for i, r := range m.Returns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(typeName(r, short))
		}
		b.WriteByte(')')
	}
	return b.String()
}

package signature

import (
	"hash/maphash"
	"reflect"
	"strconv"
	"strings"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/constants"
	"github.com/ygrebnov/callshape/errors"
)

var seed = maphash.MakeSeed()

// Key is an ordered, immutable list of types usable as a map key.
// Two keys are equal iff they hold the same types in the same order and agree on
// whether the last type is a return type. The flag keeps (T) -> void and () -> T apart.
type Key struct {
	n     int
	ret   bool
	types [constants.MaxKeyLen]reflect.Type
}

// NewKey builds a Key from types. The slice is copied; later changes to it do not affect the key.
func NewKey(types ...reflect.Type) (Key, error) {
	if len(types) > constants.MaxKeyLen {
		return Key{}, errorc.With(
			errors.ErrKeyTooLong,
			errorc.String(errors.ErrorFieldArgCount, strconv.Itoa(len(types))),
		)
	}

	var k Key
	k.n = copy(k.types[:], types)
	return k, nil
}

// Of builds a key from parameter types, appending ret when it is not nil.
func Of(params []reflect.Type, ret reflect.Type) (Key, error) {
	if ret == nil {
		return NewKey(params...)
	}
	types := make([]reflect.Type, 0, len(params)+1)
	types = append(types, params...)
	k, err := NewKey(append(types, ret)...)
	if err != nil {
		return Key{}, err
	}
	k.ret = true
	return k, nil
}

// Len returns the number of types in the key.
func (k Key) Len() int { return k.n }

// At returns the i-th type.
func (k Key) At(i int) reflect.Type { return k.types[i] }

// HasReturn reports whether the last type is a return type.
func (k Key) HasReturn() bool { return k.ret }

// Types returns a copy of the key's types.
func (k Key) Types() []reflect.Type {
	out := make([]reflect.Type, k.n)
	copy(out, k.types[:k.n])
	return out
}

func (k Key) Equal(other Key) bool { return k == other }

// Hash combines the element hashes in order. Equal keys always hash equally within a process.
func (k Key) Hash() uint64 {
	h := uint64(17)
	for _, t := range k.types[:k.n] {
		var eh uint64
		if t != nil {
			eh = maphash.Comparable(seed, t)
		}
		h = h*23 + eh
	}
	if k.ret {
		h = h*23 + 1
	}
	return h
}

func (k Key) String() string {
	var b strings.Builder
	params := k.types[:k.n]
	if k.ret {
		params = k.types[:k.n-1]
	}
	b.WriteByte('(')
	for i, t := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeString(t))
	}
	b.WriteByte(')')
	if k.ret {
		b.WriteString(" -> ")
		b.WriteString(typeString(k.types[k.n-1]))
	}
	return b.String()
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

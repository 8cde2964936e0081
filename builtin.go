package callshape

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/ygrebnov/callshape/shape"
)

// Lazy builtin seed storage.
var (
	builtinsOnce sync.Once
	builtinSeeds []reflect.Type
)

// ensureBuiltins initializes the builtin seeds exactly once.
func ensureBuiltins() {
	builtinsOnce.Do(func() {
		known := []any{
			// actions
			func() {},
			func(string) {},
			func(int) {},
			func(int64) {},
			func(float32) {},
			func(float64) {},
			func(bool) {},
			func(error) {},
			func(any) {},
			func(context.Context) {},
			func(string, any) {},
			func(string, string) {},
			func(shape.EventSource, shape.EventData) {},

			// funcs
			func() string { return "" },
			func() int { return 0 },
			func() bool { return false },
			func() error { return nil },
			func() any { return nil },
			func(string) string { return "" },
			func(string) bool { return false },
			func(string) error { return nil },
			func(int) int { return 0 },
			func(int) string { return "" },
			func(any) any { return nil },
			func(any) bool { return false },
			func(context.Context) error { return nil },
		}
		builtinSeeds = make([]reflect.Type, len(known))
		for i, fn := range known {
			builtinSeeds[i] = reflect.TypeOf(fn)
		}
	})
}

// BuiltinSeeds returns the signatures every Classifier knows unless WithoutBuiltinSeeds is given.
func BuiltinSeeds() []reflect.Type {
	ensureBuiltins()
	return slices.Clone(builtinSeeds)
}

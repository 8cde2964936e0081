package callshape

import (
	"context"
	"reflect"
	"testing"

	"github.com/ygrebnov/callshape/internal/signature"
	"github.com/ygrebnov/callshape/shape"
)

func TestBuiltinSeeds(t *testing.T) {
	seeds := BuiltinSeeds()
	if len(seeds) == 0 {
		t.Fatalf("expected builtin seeds")
	}

	keys := map[signature.Key]reflect.Type{}
	for _, s := range seeds {
		if s.Kind() != reflect.Func || s.NumOut() > 1 {
			t.Fatalf("unexpected builtin seed %s", s)
		}
		params := make([]reflect.Type, s.NumIn())
		for i := range params {
			params[i] = s.In(i)
		}
		var ret reflect.Type
		if s.NumOut() == 1 {
			ret = s.Out(0)
		}
		k, err := signature.Of(params, ret)
		if err != nil {
			t.Fatalf("key error for %s: %v", s, err)
		}
		if prev, ok := keys[k]; ok {
			t.Fatalf("builtin seeds %s and %s share key %s", prev, s, k)
		}
		keys[k] = s
	}

	c := New(WithLogger(discardLogger()))
	if c.KnownSignatures() != len(seeds) {
		t.Fatalf("expected %d known signatures, got %d", len(seeds), c.KnownSignatures())
	}

	seeds[0] = nil
	if BuiltinSeeds()[0] == nil {
		t.Fatalf("expected BuiltinSeeds to return a copy")
	}
}

type builtinHost struct{}

func (builtinHost) Done(context.Context) error { return nil }
func (builtinHost) Clicked(shape.EventSource, shape.EventData) {}
func (builtinHost) Name() string { return "" }

func TestBuiltinSeeds_Resolve(t *testing.T) {
	typ := reflect.TypeOf(builtinHost{})
	for _, name := range []string{"Done", "Clicked", "Name"} {
		res, err := Resolve(mustMethod(t, typ, name))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if res.Rule != RuleLookup {
			t.Fatalf("%s: expected lookup, got %s", name, res.Rule)
		}
	}

	res, err := New(WithoutBuiltinSeeds(), WithLogger(discardLogger())).Resolve(mustMethod(t, typ, "Name"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rule != RuleFallback {
		t.Fatalf("expected fallback without builtins, got %s", res.Rule)
	}
}

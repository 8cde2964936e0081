package lookup

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/constants"
	"github.com/ygrebnov/callshape/errors"
	"github.com/ygrebnov/callshape/internal/signature"
	"github.com/ygrebnov/callshape/shape"
)

// Table maps signature keys to concrete callables. It is never mutated after Build returns,
// so concurrent reads need no synchronization.
type Table struct {
	entries map[signature.Key]shape.Callable
	skipped []error
}

// Build derives a table from the function types of known callables.
// Void seeds map (params) -> Action<n>; non-void seeds map (params, ret) -> Func<n>.
// Colliding keys keep the last seed. Seeds that cannot be represented are skipped and
// reported by Skipped.
func Build(catalog *shape.Catalog, seeds ...reflect.Type) *Table {
	t := &Table{entries: make(map[signature.Key]shape.Callable, len(seeds))}

	for _, seed := range seeds {
		key, callable, err := entryFor(catalog, seed)
		if err != nil {
			t.skipped = append(t.skipped, err)
			continue
		}
		t.entries[key] = callable
	}
	return t
}

func entryFor(catalog *shape.Catalog, seed reflect.Type) (signature.Key, shape.Callable, error) {
	if seed == nil || seed.Kind() != reflect.Func {
		name := "<nil>"
		if seed != nil {
			name = seed.String()
		}
		return signature.Key{}, shape.Callable{}, errorc.With(
			errors.ErrNotFunc,
			errorc.String(errors.ErrorFieldSeedType, name),
		)
	}

	params := make([]reflect.Type, seed.NumIn())
	for i := range params {
		params[i] = seed.In(i)
	}

	var (
		ret      reflect.Type
		template = shape.Action(len(params))
		args     = params
	)
	switch seed.NumOut() {
	case 0:
	case 1:
		ret = seed.Out(0)
		template = shape.Function(len(params))
		args = append(slices.Clip(params), ret)
	default:
		return signature.Key{}, shape.Callable{}, errorc.With(
			errors.ErrMultipleReturns,
			errorc.String(errors.ErrorFieldSeedType, seed.String()),
			errorc.String(errors.ErrorFieldReturns, strconv.Itoa(seed.NumOut())),
		)
	}

	if len(params) > constants.MaxArity {
		return signature.Key{}, shape.Callable{}, errorc.With(
			errors.ErrArityExceeded,
			errorc.String(errors.ErrorFieldSeedType, seed.String()),
			errorc.String(errors.ErrorFieldArity, strconv.Itoa(len(params))),
		)
	}

	callable, err := catalog.Instantiate(template, args...)
	if err != nil {
		return signature.Key{}, shape.Callable{}, err
	}
	key, err := signature.Of(params, ret)
	if err != nil {
		return signature.Key{}, shape.Callable{}, err
	}
	return key, callable, nil
}

// Lookup returns the callable registered for key.
func (t *Table) Lookup(key signature.Key) (shape.Callable, bool) {
	c, ok := t.entries[key]
	return c, ok
}

// Len returns the number of distinct signatures in the table.
func (t *Table) Len() int { return len(t.entries) }

// Skipped returns one error per seed that could not be added.
func (t *Table) Skipped() []error { return slices.Clone(t.skipped) }

// Keys returns the table's keys sorted by their string form.
func (t *Table) Keys() []signature.Key {
	keys := make([]signature.Key, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b signature.Key) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

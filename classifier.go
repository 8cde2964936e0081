package callshape

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"sync"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/callshape/errors"
	"github.com/ygrebnov/callshape/internal/lookup"
	"github.com/ygrebnov/callshape/internal/signature"
	"github.com/ygrebnov/callshape/shape"
)

// Rule names the resolution step that produced a callable.
type Rule uint8

const (
	// RuleLookup: the exact signature was registered by a known callable.
	RuleLookup Rule = iota + 1
	// RuleEventHandler: the method has the (source, payload, T) event handler shape.
	RuleEventHandler
	// RuleFallback: the callable was synthesized from the method's own types.
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleLookup:
		return "lookup"
	case RuleEventHandler:
		return "event_handler"
	case RuleFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Resolution is a classified callable together with the rule that produced it.
type Resolution struct {
	Callable shape.Callable
	Rule     Rule
}

// Classifier maps method signatures to concrete callables. Its lookup table is built
// once, on first use, from the configured seeds. A Classifier is safe for concurrent use.
type Classifier struct {
	once      sync.Once
	table     *lookup.Table
	catalog   *shape.Catalog
	builtins  bool
	seeds     []reflect.Type
	suppliers []func() []reflect.Type
	logger    *slog.Logger
	metrics   *Metrics
}

// Option configures a Classifier at construction time.
type Option func(*Classifier)

// New returns a Classifier seeded with the builtin callables and any configured seeds.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		catalog:  shape.DefaultCatalog(),
		builtins: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSeeds registers the signatures of known callables, given as func values.
func WithSeeds(fns ...any) Option {
	return func(c *Classifier) {
		for _, fn := range fns {
			c.seeds = append(c.seeds, reflect.TypeOf(fn))
		}
	}
}

// WithSeedTypes registers known callable signatures given as func types.
func WithSeedTypes(types ...reflect.Type) Option {
	return func(c *Classifier) {
		c.seeds = append(c.seeds, types...)
	}
}

// WithSeedSupplier registers a supplier of known callable signatures.
// It is called once, when the lookup table is built. A supplier that panics is
// logged and its seeds are left out.
func WithSeedSupplier(supplier func() []reflect.Type) Option {
	return func(c *Classifier) {
		if supplier != nil {
			c.suppliers = append(c.suppliers, supplier)
		}
	}
}

// WithoutBuiltinSeeds leaves the builtin callables out of the lookup table.
func WithoutBuiltinSeeds() Option {
	return func(c *Classifier) { c.builtins = false }
}

// WithCatalog sets the catalog that fixes the event handler shape.
func WithCatalog(catalog *shape.Catalog) Option {
	return func(c *Classifier) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithLogger sets the logger used to report seeds skipped while building the lookup table.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics reports resolutions and the lookup table size to m.
func WithMetrics(m *Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

func (c *Classifier) lookupTable() *lookup.Table {
	c.once.Do(func() {
		var seeds []reflect.Type
		// Builtins go first so that explicit seeds win on collision.
		if c.builtins {
			seeds = append(seeds, BuiltinSeeds()...)
		}
		seeds = append(seeds, c.seeds...)
		for i, supply := range c.suppliers {
			supplied, err := runSupplier(supply)
			if err != nil {
				c.log().Error("seed supplier failed", slog.Int("supplier", i), slog.Any("error", err))
				continue
			}
			seeds = append(seeds, supplied...)
		}

		c.table = lookup.Build(c.catalog, seeds...)
		for _, err := range c.table.Skipped() {
			c.log().Warn("skipping known callable", slog.Any("error", err))
		}
		c.log().Debug("built signature lookup table", slog.Int("signatures", c.table.Len()))
		c.metrics.tableBuilt(c.table.Len())
	})
	return c.table
}

// runSupplier calls supply, turning a panic into ErrSeedSupplier.
func runSupplier(supply func() []reflect.Type) (seeds []reflect.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			seeds = nil
			err = errorc.With(errors.ErrSeedSupplier, errorc.String(errors.ErrorFieldCause, fmt.Sprint(r)))
		}
	}()
	return supply(), nil
}

func (c *Classifier) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// KnownSignatures returns the number of signatures in the lookup table, building it if needed.
func (c *Classifier) KnownSignatures() int {
	return c.lookupTable().Len()
}

// Classify returns the concrete callable for m, or a *ClassificationError.
func (c *Classifier) Classify(m Method) (shape.Callable, error) {
	res, err := c.Resolve(m)
	return res.Callable, err
}

// Resolve classifies m and reports which rule matched.
// Resolution order:
//  1. Exact lookup of (params..., return) in the table built from known callables.
//  2. The event handler shape: exactly three params, the first two being the catalog's
//     source and payload types, and no result.
//  3. Action<n> or Func<n> synthesized from the method's own types.
//
// Lookup runs first: a registered signature always keeps its registered shape.
func (c *Classifier) Resolve(m Method) (Resolution, error) {
	res, err := c.resolve(m)
	c.metrics.observe(res, err)
	return res, err
}

func (c *Classifier) resolve(m Method) (Resolution, error) {
	if len(m.Returns) > 1 {
		return Resolution{}, &ClassificationError{
			Method: m,
			Err: errorc.With(
				errors.ErrMultipleReturns,
				errorc.String(errors.ErrorFieldMethodName, m.QualifiedName()),
				errorc.String(errors.ErrorFieldReturns, strconv.Itoa(len(m.Returns))),
			),
		}
	}
	ret := m.Return()

	if key, err := signature.Of(m.Params, ret); err == nil {
		if callable, ok := c.lookupTable().Lookup(key); ok {
			return Resolution{Callable: callable, Rule: RuleLookup}, nil
		}
	}

	if ret == nil && c.catalog.IsEventShape(m.Params) {
		callable, err := c.catalog.Instantiate(shape.EventHandler(), m.Params[2])
		if err != nil {
			return Resolution{}, &ClassificationError{Method: m, Err: err}
		}
		return Resolution{Callable: callable, Rule: RuleEventHandler}, nil
	}

	callable, err := synthesize(c.catalog, m.Params, ret)
	if err != nil {
		return Resolution{}, &ClassificationError{Method: m, Err: err}
	}
	return Resolution{Callable: callable, Rule: RuleFallback}, nil
}

// synthesize instantiates Action<n> for void methods and Func<n> otherwise.
func synthesize(catalog *shape.Catalog, params []reflect.Type, ret reflect.Type) (shape.Callable, error) {
	if ret == nil {
		return catalog.Instantiate(shape.Action(len(params)), params...)
	}
	args := make([]reflect.Type, 0, len(params)+1)
	args = append(args, params...)
	return catalog.Instantiate(shape.Function(len(params)), append(args, ret)...)
}

var defaultClassifier = New()

// Classify classifies m with the process-wide classifier seeded from BuiltinSeeds.
func Classify(m Method) (shape.Callable, error) {
	return defaultClassifier.Classify(m)
}

// Resolve resolves m with the process-wide classifier seeded from BuiltinSeeds.
func Resolve(m Method) (Resolution, error) {
	return defaultClassifier.Resolve(m)
}

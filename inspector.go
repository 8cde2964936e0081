package callshape

import (
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/ygrebnov/callshape/config"
)

// hider is implemented by receivers that keep some methods out of inspection.
type hider interface {
	HiddenMethods() []string
}

const hiddenMethodsName = "HiddenMethods"

// Inspector classifies and binds every method of a receiver. A method that fails is
// logged and recorded as a placeholder; it never stops the others.
type Inspector struct {
	classifier *Classifier
	config     atomic.Pointer[config.Config]
	logger     *slog.Logger
}

// InspectorOption configures an Inspector at construction time.
type InspectorOption func(*Inspector)

// WithInspectorConfig sets the inspection settings. Defaults to config.Default().
func WithInspectorConfig(cfg config.Config) InspectorOption {
	return func(in *Inspector) { in.config.Store(&cfg) }
}

// WithInspectorLogger sets the logger failures are reported to. Defaults to slog.Default().
func WithInspectorLogger(logger *slog.Logger) InspectorOption {
	return func(in *Inspector) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// NewInspector returns an Inspector using c, or the process-wide classifier when c is nil.
func NewInspector(c *Classifier, opts ...InspectorOption) *Inspector {
	if c == nil {
		c = defaultClassifier
	}
	in := &Inspector{
		classifier: c,
		logger:     slog.Default(),
	}
	in.SetConfig(config.Default())
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// SetConfig replaces the inspection settings. Inspections already running keep the
// settings they started with. It can be passed to config.NewWatcher as the change callback.
func (in *Inspector) SetConfig(cfg config.Config) { in.config.Store(&cfg) }

// Config returns the current inspection settings.
func (in *Inspector) Config() config.Config { return *in.config.Load() }

// Inspect inspects the exported methods of receiver's dynamic type.
func (in *Inspector) Inspect(receiver any) *Report {
	return in.InspectMethods(receiver, MethodsOf(reflect.TypeOf(receiver)))
}

// InspectMethods inspects methods, binding instance methods to receiver.
func (in *Inspector) InspectMethods(receiver any, methods []Method) *Report {
	report := &Report{}
	cfg := in.Config()
	if !cfg.Show {
		return report
	}

	h, isHider := receiver.(hider)
	hidden := map[string]struct{}{}
	if isHider && !cfg.ShowHidden {
		for _, name := range h.HiddenMethods() {
			hidden[name] = struct{}{}
		}
	}

	for _, m := range methods {
		if !m.Static {
			if _, ok := hidden[m.Name]; ok {
				continue
			}
			if isHider && m.Name == hiddenMethodsName {
				continue
			}
		}
		if entry, keep := in.inspect(cfg, receiver, m); keep {
			report.add(entry)
		}
	}
	return report
}

func (in *Inspector) inspect(cfg config.Config, receiver any, m Method) (Entry, bool) {
	entry := Entry{Method: m, Label: signatureString(m, cfg.ShortNames)}

	res, err := in.classifier.Resolve(m)
	if err != nil {
		in.logger.Error("cannot classify method",
			slog.String("method", m.Name),
			slog.String("declaring_type", typeName(m.DeclaringType, cfg.ShortNames)),
			slog.Any("error", err),
		)
		entry.Err = err
		return entry, true
	}
	// Classification failures are reported regardless of ShowNonDefault.
	if !cfg.ShowNonDefault && res.Rule != RuleLookup {
		return entry, false
	}
	entry.Callable, entry.Rule = res.Callable, res.Rule

	var recv any
	if !m.Static {
		recv = receiver
	}
	v, err := Bind(res.Callable, m, recv)
	if err != nil {
		in.logger.Error("cannot bind method",
			slog.String("method", m.Name),
			slog.String("declaring_type", typeName(m.DeclaringType, cfg.ShortNames)),
			slog.String("callable", res.Callable.String()),
			slog.Any("error", err),
		)
		entry.Err = err
		return entry, true
	}
	entry.Value = v
	return entry, true
}

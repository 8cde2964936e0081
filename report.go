package callshape

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"

	"github.com/ygrebnov/callshape/shape"
)

// Entry is the outcome of inspecting one method: either a bound callable or a placeholder
// carrying the error that prevented it.
type Entry struct {
	Method   Method
	Label    string
	Callable shape.Callable
	Rule     Rule
	Value    reflect.Value
	Err      error
}

// Placeholder reports whether the entry stands in for a method that could not be classified or bound.
func (e Entry) Placeholder() bool { return e.Err != nil }

// Report accumulates inspection entries and the per-method failures among them.
// Err joins the underlying causes so errors.Is/As keep working on the combined error.
type Report struct {
	mu      sync.Mutex
	entries []Entry
	issues  []MethodError
}

func (r *Report) add(e Entry) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if e.Err != nil {
		r.issues = append(r.issues, MethodError{Path: e.Method.QualifiedName(), Err: e.Err})
	}
}

// Entries returns all entries in inspection order.
func (r *Report) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of entries.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	n := len(r.entries)
	r.mu.Unlock()
	return n
}

// Empty reports whether there are no entries.
func (r *Report) Empty() bool { return r.Len() == 0 }

// Failures returns one MethodError per placeholder entry.
func (r *Report) Failures() []MethodError {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MethodError(nil), r.issues...)
}

// Err joins the failures, or returns nil when every method was bound.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]error, 0, len(r.issues))
	for _, me := range r.issues {
		errs = append(errs, me)
	}
	return errors.Join(errs...)
}

// ForMethod returns the entries for the method with the given name.
func (r *Report) ForMethod(name string) []Entry {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Method.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON exports the report as a list of entries.
// Example:
//
//	[
//	  {"method": "Counter.Add", "label": "Add(int)", "callable": "Action<1>[int]", "rule": "lookup"},
//	  {"method": "Counter.Split", "label": "Split() (int, int)", "error": "..."}
//	]
func (r *Report) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	type jsonEntry struct {
		Method   string `json:"method"`
		Label    string `json:"label"`
		Callable string `json:"callable,omitempty"`
		Rule     string `json:"rule,omitempty"`
		Error    string `json:"error,omitempty"`
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]jsonEntry, 0, len(r.entries))
	for _, e := range r.entries {
		je := jsonEntry{Method: e.Method.QualifiedName(), Label: e.Label}
		if e.Err != nil {
			je.Error = e.Err.Error()
		} else {
			je.Callable = e.Callable.String()
			je.Rule = e.Rule.String()
		}
		out = append(out, je)
	}
	return json.Marshal(out)
}

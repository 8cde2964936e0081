package callshape

import (
	"encoding/json"
	"fmt"
)

// MethodError represents a single failure for a specific method during inspection.
// It implements error and unwraps to the underlying cause so callers can use errors.Is/As.
type MethodError struct {
	Path string // qualified method name (e.g., Counter.Add)
	Err  error  // underlying classification or binding error
}

func (e MethodError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e MethodError) Unwrap() error { return e.Err }

// MarshalJSON exports MethodError as an object with method and message fields.
func (e MethodError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Method  string `json:"method"`
		Message string `json:"message"`
	}{
		Method:  e.Path,
		Message: msg,
	})
}

package callshape

import (
	"bytes"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"testing"

	"github.com/ygrebnov/callshape/shape"
)

var (
	intType     = reflect.TypeOf(0)
	stringType  = reflect.TypeOf("")
	boolType    = reflect.TypeOf(false)
	float64Type = reflect.TypeOf(float64(0))
	sourceType  = reflect.TypeOf((*shape.EventSource)(nil)).Elem()
	dataType    = reflect.TypeOf(shape.EventData{})
)

// counter is the receiver most tests inspect and bind.
type counter struct {
	n       int
	pressed string
}

func (c *counter) Add(delta int) { c.n += delta }

func (c *counter) Value() int { return c.n }

func (c *counter) Scale(f float64, label string) string {
	return label + "=" + strconv.FormatFloat(float64(c.n)*f, 'f', -1, 64)
}

func (c *counter) Split() (int, int) { return c.n / 2, c.n - c.n/2 }

func (c *counter) Press(_ shape.EventSource, data shape.EventData, label string) {
	if data.Pressed {
		c.pressed = label
	}
}

func (c *counter) Sum(xs ...int) int {
	total := c.n
	for _, x := range xs {
		total += x
	}
	return total
}

func (c *counter) Reset() { c.n = 0 }

func (c *counter) HiddenMethods() []string { return []string{"Reset"} }

type button struct{ name string }

func (b button) SourceName() string { return b.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func mustMethod(t *testing.T, typ reflect.Type, name string) Method {
	t.Helper()
	m, err := MethodByName(typ, name)
	if err != nil {
		t.Fatalf("MethodByName(%s) error: %v", name, err)
	}
	return m
}

func repeat(t reflect.Type, n int) []reflect.Type {
	out := make([]reflect.Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}

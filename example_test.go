package callshape

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ygrebnov/callshape/config"
	"github.com/ygrebnov/callshape/shape"
)

type player struct{ volume int }

func (p *player) SetVolume(v int) { p.volume = v }
func (p *player) Volume() int { return p.volume }
func (p *player) Mix(level float64, track string) string { return fmt.Sprintf("%s@%.1f", track, level) }
func (p *player) Clicked(_ shape.EventSource, _ shape.EventData, tag string) {}
func (p *player) Bounds() (int, int) { return 0, p.volume }

func ExampleClassify() {
	typ := reflect.TypeOf(&player{})
	for _, name := range []string{"SetVolume", "Volume", "Mix", "Clicked"} {
		m, _ := MethodByName(typ, name)
		res, err := Resolve(m)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("%s -> %s (%s)\n", m, res.Callable, res.Rule)
	}

	// Output:
	// SetVolume(int) -> Action<1>[int] (lookup)
	// Volume() int -> Func<0>[int] (lookup)
	// Mix(float64, string) string -> Func<2>[float64, string, string] (fallback)
	// Clicked(shape.EventSource, shape.EventData, string) -> EventHandler<1>[string] (event_handler)
}

func ExampleClassify_multipleReturns() {
	m, _ := MethodByName(reflect.TypeOf(&player{}), "Bounds")
	_, err := Classify(m)
	var ce *ClassificationError
	fmt.Println(errors.As(err, &ce), ce.Method.Name)

	// Output: true Bounds
}

func ExampleBind() {
	p := &player{}
	m, _ := MethodByName(reflect.TypeOf(p), "SetVolume")
	c, _ := Classify(m)

	v, err := Bind(c, m, p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	v.Interface().(func(int))(11)
	fmt.Println(p.volume)

	// Output: 11
}

func ExampleCanonicalize() {
	type handler func(string, ...int) bool
	var h handler = func(s string, xs ...int) bool { return len(xs) == len(s) }

	v, _ := Canonicalize(h)
	fmt.Println(v.Type())
	fmt.Println(v.Interface().(func(string, []int) bool)("ab", []int{1, 2}))

	// Output:
	// func(string, []int) bool
	// true
}

func ExampleNewInspector() {
	cfg, err := config.Load(strings.NewReader("show_non_default: false\n"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	in := NewInspector(nil, WithInspectorConfig(cfg), WithInspectorLogger(discardLogger()))
	report := in.Inspect(&player{})
	for _, e := range report.Entries() {
		if e.Placeholder() {
			fmt.Printf("%s: placeholder\n", e.Label)
			continue
		}
		fmt.Printf("%s: %s\n", e.Label, e.Callable)
	}

	// Output:
	// Bounds() (int, int): placeholder
	// SetVolume(int): Action<1>[int]
	// Volume() int: Func<0>[int]
}

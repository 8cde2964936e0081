package shape

// EventSource raises press events. Handlers of the event handler shape receive it first.
type EventSource interface {
	SourceName() string
}

// EventData is the envelope delivered alongside the source on every press.
type EventData struct {
	Pressed  bool
	Released bool
	Point    [2]float64
}

// EventHandlerFunc is the Go rendition of an event handler instantiated with argument type T.
type EventHandlerFunc[T any] func(source EventSource, data EventData, arg T)

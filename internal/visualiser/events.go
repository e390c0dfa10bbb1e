package visualiser

import "time"

type EventKind string

const (
	EventStage    EventKind = "stage"
	EventHopStart EventKind = "hop_start"
	EventHopEnd   EventKind = "hop_end"
	EventDone     EventKind = "done"
	EventAborted  EventKind = "aborted"
)

// Event describes one transition of a Run. Hop, From, To and Direction are set
// for hop events; Position is where the figure stands after the transition.
type Event struct {
	Kind      EventKind     `json:"kind" msgpack:"kind"`
	At        time.Duration `json:"at" msgpack:"at"`
	Stage     int           `json:"stage" msgpack:"stage"`
	Hop       int           `json:"hop,omitempty" msgpack:"hop,omitempty"`
	From      int           `json:"from,omitempty" msgpack:"from,omitempty"`
	To        int           `json:"to,omitempty" msgpack:"to,omitempty"`
	Direction Direction     `json:"direction,omitempty" msgpack:"direction,omitempty"`
	Position  int           `json:"position" msgpack:"position"`
}

// Observer is notified of Run transitions on the scheduler's timeline, after
// the drawing for the transition has been issued.
type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

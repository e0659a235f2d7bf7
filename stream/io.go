package stream

import "io"

// EventReader is the consuming side of a decoded event sequence.
type EventReader interface {
	ReadEvent() (*Event, error)
}

// Collect drains r into a slice, stopping at io.EOF. Intended for tests
// and for documents known to be small; large inputs should consume
// events one at a time.
func Collect(r EventReader) ([]*Event, error) {
	var evs []*Event
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			return evs, nil
		}
		if err != nil {
			return evs, err
		}
		evs = append(evs, ev)
	}
}

package events

import "slices"

// Recorder buffers the domain events raised by an aggregate until the
// application layer drains and publishes them.
type Recorder struct {
	pending []DomainEvent
}

// Record buffers events in the order given.
func (r *Recorder) Record(evts ...DomainEvent) {
	r.pending = append(r.pending, evts...)
}

// Pending returns a copy of the buffered events.
func (r *Recorder) Pending() []DomainEvent {
	return slices.Clone(r.pending)
}

// Drain returns the buffered events and empties the buffer.
func (r *Recorder) Drain() []DomainEvent {
	drained := r.pending
	r.pending = nil
	return drained
}

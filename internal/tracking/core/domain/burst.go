package domain

import "math"

// Burst is the ordered run of wheel events collected inside one window. It
// always holds at least the event that opened it and only grows until it is
// aggregated.
type Burst struct {
	events []RawEvent
}

// NewBurst opens a burst with its first event.
func NewBurst(first RawEvent) *Burst {
	return &Burst{events: []RawEvent{first}}
}

// Append adds an event to the end of the burst.
func (b *Burst) Append(e RawEvent) {
	b.events = append(b.events, e)
}

// Len returns the number of events in the burst.
func (b *Burst) Len() int {
	return len(b.events)
}

// First returns the event that opened the burst.
func (b *Burst) First() RawEvent {
	return b.events[0]
}

// Last returns the most recently appended event.
func (b *Burst) Last() RawEvent {
	return b.events[len(b.events)-1]
}

// Aggregate reduces the burst to its WindowScrolled record. NaN magnitudes
// or timestamps propagate into the result instead of being rejected.
func (b *Burst) Aggregate(owner string) AggregatedRecord {
	var delta float64
	for _, e := range b.events {
		delta += math.Abs(e.Magnitude)
	}
	ms := b.Last().TimeStamp - b.First().TimeStamp
	return AggregatedRecord{
		Delta:    Number(delta),
		Owner:    owner,
		Duration: Number(ms / 1000),
	}
}

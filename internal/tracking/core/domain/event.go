package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Feedback event types understood by the event stream.
const (
	EventUserClicked    = "UserClicked"
	EventWindowScrolled = "WindowScrolled"
)

// RawEvent is a single wheel occurrence reported by a page.
type RawEvent struct {
	TimeStamp float64 // milliseconds on the page's monotonic clock
	Magnitude float64 // wheel deltaY
	Origin    string  // URL of the document the event happened on
}

// Number is a float that encodes NaN and ±Inf as JSON null, the way the
// browser serializer does.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// AggregatedRecord is the single WindowScrolled payload produced by a closed
// burst.
type AggregatedRecord struct {
	Delta    Number `json:"delta"`    // sum of |deltaY|
	Owner    string `json:"owner"`    // origin identifier
	Duration Number `json:"duration"` // seconds between first and last event
}

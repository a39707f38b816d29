package usecase

import (
	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

// ClickTracker forwards every click as a UserClicked feedback event.
type ClickTracker struct {
	sink ports.EmissionSink
}

func NewClickTracker(sink ports.EmissionSink) *ClickTracker {
	return &ClickTracker{sink: sink}
}

func (t *ClickTracker) Track(c domain.Click) {
	t.sink.Emit(buildClickRecord(c), domain.EventUserClicked)
}

func buildClickRecord(c domain.Click) domain.ClickRecord {
	target := domain.ClickTarget{}
	if c.Target != nil {
		if id, ok := c.Target.MostSpecific(domain.AttrID); ok {
			target.ID = &id
		}
		if class, ok := c.Target.MostSpecific(domain.AttrClassName); ok {
			target.Class = &class
		}
		target.Name = c.Target.LocalName
		target.Text = c.Target.TextContent
	}

	return domain.ClickRecord{
		Click: domain.ClickDetail{
			X:      c.X,
			Y:      c.Y,
			Target: target,
		},
		Screen: domain.Screen{
			Height: c.ViewHeight,
			Width:  c.ViewWidth,
		},
		Owner: c.OwnerURL,
	}
}

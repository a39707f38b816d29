package postgres

import (
	"context"
	"encoding/json"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/feedback/core/ports"
)

// Journal records every delivered envelope in the feedback_events table.
type Journal struct {
	db DB
}

func NewJournal(db DB) *Journal {
	return &Journal{db: db}
}

var _ ports.Transport = (*Journal)(nil)

const createFeedbackEventsSQL = `
CREATE TABLE IF NOT EXISTS feedback_events (
    event_id   UUID PRIMARY KEY,
    event_type TEXT             NOT NULL,
    owner      TEXT             NOT NULL DEFAULT '',
    delta      DOUBLE PRECISION,
    duration   DOUBLE PRECISION,
    emitted_at TIMESTAMPTZ      NOT NULL,
    body       JSONB            NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_events_type_time
    ON feedback_events (event_type, emitted_at);
`

// SQL template
const insertFeedbackEventSQL = `
INSERT INTO feedback_events (
    event_id,
    event_type,
    owner,
    delta,
    duration,
    emitted_at,
    body
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7
)
ON CONFLICT (event_id) DO NOTHING;
`

// journalFields are the body fields promoted to columns. Delta and
// duration stay NULL for events that do not carry them.
type journalFields struct {
	Owner    string   `json:"owner"`
	Delta    *float64 `json:"delta"`
	Duration *float64 `json:"duration"`
}

func (j *Journal) Migrate(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, createFeedbackEventsSQL)
	return err
}

func (j *Journal) Name() string { return "postgres" }

func (j *Journal) Deliver(ctx context.Context, env domain.Envelope) error {
	_, err := j.InsertEnvelope(ctx, env)
	return err
}

func (j *Journal) InsertEnvelope(ctx context.Context, env domain.Envelope) (bool, error) {
	var f journalFields
	if err := json.Unmarshal(env.Body, &f); err != nil {
		return false, err
	}

	res, err := j.db.ExecContext(ctx, insertFeedbackEventSQL,
		env.ID.String(),
		env.EventType,
		f.Owner,
		nullFloat(f.Delta),
		nullFloat(f.Duration),
		env.Timestamp,
		[]byte(env.Body),
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/feedback/core/ports"
)

type SummaryRepository struct {
	db DB
}

func NewSummaryRepository(db DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

var _ ports.SummaryReaderPort = (*SummaryRepository)(nil)

func (r *SummaryRepository) QuerySummary(ctx context.Context, f ports.SummaryFilter) (*domain.Summary, error) {
	fromTime := time.Unix(f.From, 0).UTC()
	toTime := time.Unix(f.To, 0).UTC()

	where := "event_type = $1 AND emitted_at BETWEEN $2 AND $3"
	args := []any{f.EventType, fromTime, toTime}

	if f.Owner != nil {
		where += fmt.Sprintf(" AND owner = $%d", len(args)+1)
		args = append(args, *f.Owner)
	}

	result := &domain.Summary{
		EventType: f.EventType,
		From:      f.From,
		To:        f.To,
		GroupBy:   f.GroupBy,
	}

	if err := r.queryTotals(ctx, where, args, result); err != nil {
		return nil, err
	}

	var groupExpr string
	switch f.GroupBy {
	case "":
		return result, nil
	case "owner":
		groupExpr = "owner"
	case "time":
		if f.Interval != "hour" && f.Interval != "day" {
			return nil, fmt.Errorf("unsupported interval: %s", f.Interval)
		}
		groupExpr = fmt.Sprintf("date_trunc('%s', emitted_at)", f.Interval)
	default:
		return nil, fmt.Errorf("unsupported group_by: %s", f.GroupBy)
	}

	groups, err := r.queryGroups(ctx, groupExpr, where, args, f.GroupBy == "time")
	if err != nil {
		return nil, err
	}
	result.Groups = groups
	return result, nil
}

func (r *SummaryRepository) queryTotals(ctx context.Context, where string, args []any, res *domain.Summary) error {
	query := `
SELECT
    COUNT(*) AS total_count,
    COUNT(DISTINCT owner) AS unique_owners,
    COALESCE(SUM(delta), 0) AS total_delta,
    COALESCE(AVG(duration), 0) AS avg_duration
FROM feedback_events
WHERE ` + where

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&res.TotalCount, &res.UniqueOwners, &res.TotalDelta, &res.AvgDuration); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *SummaryRepository) queryGroups(
	ctx context.Context,
	groupExpr string,
	where string,
	args []any,
	byTime bool,
) ([]domain.SummaryGroup, error) {
	query := fmt.Sprintf(`
SELECT
    %s AS bucket,
    COUNT(*) AS total_count,
    COALESCE(SUM(delta), 0) AS total_delta,
    COALESCE(AVG(duration), 0) AS avg_duration
FROM feedback_events
WHERE %s
GROUP BY bucket
ORDER BY bucket
`, groupExpr, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.SummaryGroup
	for rows.Next() {
		var g domain.SummaryGroup
		if byTime {
			var ts time.Time
			if err := rows.Scan(&ts, &g.TotalCount, &g.TotalDelta, &g.AvgDuration); err != nil {
				return nil, err
			}
			g.Key = ts.UTC().Format(time.RFC3339)
		} else {
			if err := rows.Scan(&g.Key, &g.TotalCount, &g.TotalDelta, &g.AvgDuration); err != nil {
				return nil, err
			}
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

package domain

type Summary struct {
	EventType    string
	From         int64 // unix second
	To           int64 // unix second
	TotalCount   int64
	UniqueOwners int64

	// Scroll figures, zero unless EventType is WindowScrolled.
	TotalDelta  float64
	AvgDuration float64

	GroupBy string // "", "owner", "time"
	Groups  []SummaryGroup
}

type SummaryGroup struct {
	Key         string // owner URL or "2026-01-02T10:00:00Z"
	TotalCount  int64
	TotalDelta  float64
	AvgDuration float64
}

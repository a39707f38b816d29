package fiber

type SummaryGroupResponse struct {
	Key         string  `json:"key"`
	TotalCount  int64   `json:"total_count"`
	TotalDelta  float64 `json:"total_delta"`
	AvgDuration float64 `json:"avg_duration"`
}

type SummaryResponse struct {
	EventType    string                 `json:"event_type"`
	From         int64                  `json:"from"`
	To           int64                  `json:"to"`
	TotalCount   int64                  `json:"total_count"`
	UniqueOwners int64                  `json:"unique_owners"`
	TotalDelta   float64                `json:"total_delta"`
	AvgDuration  float64                `json:"avg_duration"`
	GroupBy      string                 `json:"group_by,omitempty"`
	Groups       []SummaryGroupResponse `json:"groups,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"invalid time range"`
}

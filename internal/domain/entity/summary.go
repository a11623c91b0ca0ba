package entity

// RunSummary aggregates per-item outcomes of one processing run. Single
// bad emails never abort a batch; they only show up in these counters.
type RunSummary struct {
	RunID                string `json:"runId"`
	EmailsSeen           int    `json:"emailsSeen"`
	EmailsRecognized     int    `json:"emailsRecognized"`
	EmailsUnrecognized   int    `json:"emailsUnrecognized"`
	CandidatesExtracted  int    `json:"candidatesExtracted"`
	RejectedMissingField int    `json:"rejectedMissingField"`
	RejectedNormalize    int    `json:"rejectedNormalize"`
	InvariantViolations  int    `json:"invariantViolations"`
	MergeConflicts       int    `json:"mergeConflicts"`
	DuplicatesMerged     int    `json:"duplicatesMerged"`
	Flights              int    `json:"flights"`
}

// Statistics are derived from the final history for reporting.
type Statistics struct {
	TotalFlights      int            `json:"totalFlights"`
	UniqueAirlines    int            `json:"uniqueAirlines"`
	FlightsByMonth    map[string]int `json:"flightsByMonth"`
	MostFrequentRoute string         `json:"mostFrequentRoute,omitempty"`
	RouteCount        int            `json:"routeCount,omitempty"`
}

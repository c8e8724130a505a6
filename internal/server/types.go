package server

import "time"

// SubmitRunRequest is the request body for POST /api/runs. Quantity is a
// pointer so an absent field can be distinguished from an explicit zero.
type SubmitRunRequest struct {
	Sector         string `json:"sector"`
	SubSector      string `json:"sub_sector"`
	Facility       string `json:"facility"`
	EquipmentClass string `json:"equipment_class"`
	Quantity       *int   `json:"quantity,omitempty"`
}

// SubmitRunResponse is returned immediately after a run is accepted.
type SubmitRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// CancelRunResponse reports the outcome of a cancellation request.
type CancelRunResponse struct {
	RunID     string `json:"run_id"`
	Cancelled bool   `json:"cancelled"`
}

// RunSummary represents a run in list responses.
type RunSummary struct {
	RunID          string     `json:"run_id"`
	Sector         string     `json:"sector"`
	SubSector      string     `json:"sub_sector"`
	Facility       string     `json:"facility"`
	EquipmentClass string     `json:"equipment_class"`
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	Succeeded      int        `json:"succeeded"`
	Failed         int        `json:"failed"`
	Skipped        int        `json:"skipped"`
	CreatedAt      time.Time  `json:"created_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Duration       float64    `json:"duration_ms"`
}

// RunDetail represents a single run with its per-item results.
type RunDetail struct {
	RunSummary
	Items []ItemSummary `json:"items"`
	Error string        `json:"error,omitempty"`
}

// ItemSummary represents one item within a run.
type ItemSummary struct {
	Index      int       `json:"index"`
	Outcome    string    `json:"outcome"`
	CardRef    string    `json:"card_ref,omitempty"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// StatsResponse represents overall statistics
type StatsResponse struct {
	TotalRuns      int `json:"total_runs"`
	LiveRuns       int `json:"live_runs"`
	CompletedRuns  int `json:"completed_runs"`
	FailedRuns     int `json:"failed_runs"`
	CancelledRuns  int `json:"cancelled_runs"`
	CardsGenerated int `json:"cards_generated"`
	ItemsFailed    int `json:"items_failed"`
}

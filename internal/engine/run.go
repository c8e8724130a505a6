package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRequest is returned by SubmitRun for malformed requests.
// No run record is created when this is returned.
var ErrInvalidRequest = errors.New("invalid run request")

// DefaultQuantity is applied by callers that accept a run request with
// the quantity left unspecified.
const DefaultQuantity = 5

// Status is the lifecycle state of a run.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transition can occur.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Outcome is the final state of one item within a run.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped-cancelled"
)

// RunRequest is the immutable input for one generation run.
type RunRequest struct {
	Sector         string `json:"sector" yaml:"sector"`
	SubSector      string `json:"sub_sector" yaml:"sub_sector"`
	Facility       string `json:"facility" yaml:"facility"`
	EquipmentClass string `json:"equipment_class" yaml:"equipment_class"`
	Quantity       int    `json:"quantity" yaml:"quantity"`
}

// Validate checks the request per the submission contract. All location
// fields are required and quantity must be at least 1.
func (r RunRequest) Validate() error {
	if strings.TrimSpace(r.Sector) == "" {
		return fmt.Errorf("%w: sector is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.SubSector) == "" {
		return fmt.Errorf("%w: sub_sector is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Facility) == "" {
		return fmt.Errorf("%w: facility is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.EquipmentClass) == "" {
		return fmt.Errorf("%w: equipment_class is required", ErrInvalidRequest)
	}
	if r.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidRequest, r.Quantity)
	}
	return nil
}

// ItemResult is one attempted unit of work within a run.
type ItemResult struct {
	// Index is the item's position within the run's requested quantity.
	Index int `json:"index"`

	// Outcome is succeeded, failed, or skipped-cancelled.
	Outcome Outcome `json:"outcome"`

	// CardRef is the persisted card reference when Outcome is succeeded.
	CardRef string `json:"card_ref,omitempty"`

	// Error holds the failure reason when Outcome is failed.
	Error string `json:"error,omitempty"`

	// FinishedAt is when the item settled (zero for skipped items).
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// RunRecord is the aggregate state of one run. While a run is live the
// record is owned by its execution goroutine and published to readers
// as immutable snapshots; a snapshot is never mutated after publication.
type RunRecord struct {
	ID      string     `json:"id"`
	Request RunRequest `json:"request"`
	Status  Status     `json:"status"`

	// Items grows in completion order, which may differ from dispatch
	// order under concurrent execution. Its length never exceeds
	// Request.Quantity.
	Items []ItemResult `json:"items"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error is the run-level failure reason, set only when Status is failed.
	Error string `json:"error,omitempty"`
}

// Clone returns a deep copy safe to publish or hand to callers.
func (r *RunRecord) Clone() *RunRecord {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Items != nil {
		cp.Items = make([]ItemResult, len(r.Items))
		copy(cp.Items, r.Items)
	}
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}

// Succeeded returns the number of items with outcome succeeded.
func (r *RunRecord) Succeeded() int { return r.countOutcome(OutcomeSucceeded) }

// Failed returns the number of items with outcome failed.
func (r *RunRecord) Failed() int { return r.countOutcome(OutcomeFailed) }

// Skipped returns the number of items skipped due to cancellation.
func (r *RunRecord) Skipped() int { return r.countOutcome(OutcomeSkipped) }

func (r *RunRecord) countOutcome(o Outcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}

// Duration returns the elapsed time for this run. For live runs it is
// the time since creation.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt == nil {
		return time.Since(r.CreatedAt)
	}
	return r.FinishedAt.Sub(r.CreatedAt)
}

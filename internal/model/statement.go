package model

import "github.com/google/uuid"

// ProgressSummary is derived from a contract's milestone set. It is always
// recomputed from the milestones, never stored.
type ProgressSummary struct {
	TotalMilestones int     `json:"total_milestones"`
	CompletedCount  int     `json:"completed_count"`
	ProgressPercent int     `json:"progress_percent"`
	PaidValue       float64 `json:"paid_value"`
	PendingValue    float64 `json:"pending_value"`
	AllPaid         bool    `json:"all_paid"`
}

// ContractStatement bundles a contract with its milestone schedule and
// derived progress for document export.
type ContractStatement struct {
	Contract   Contract
	Project    Project
	Milestones []Milestone
	Progress   ProgressSummary
}

// Notification is the counter-party event published after a milestone
// transition commits. Delivery is best-effort.
type Notification struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	RelatedID   uuid.UUID `json:"related_id"`
}

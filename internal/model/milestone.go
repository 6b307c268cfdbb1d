package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "PENDING"
	MilestoneStatusInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneStatusCompleted  MilestoneStatus = "COMPLETED"
	MilestoneStatusApproved   MilestoneStatus = "APPROVED"
	MilestoneStatusPaid       MilestoneStatus = "PAID"
)

// Milestone is a priced deliverable unit within a contract. Amounts are
// immutable after creation; the per-state timestamps are stamped exactly
// once, when the milestone enters the corresponding state.
type Milestone struct {
	ID           uuid.UUID
	ContractID   uuid.UUID
	Title        string
	Description  string
	Amount       float64
	DueDate      time.Time
	Deliverables datatypes.JSONSlice[string]
	Status       MilestoneStatus
	CompletedAt  *time.Time
	ApprovedAt   *time.Time
	PaidAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MilestoneSpec is the caller-editable shape used to seed milestones, either
// hand-written or produced by the template generator.
type MilestoneSpec struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Amount       float64   `json:"amount"`
	DueDate      time.Time `json:"due_date"`
	Deliverables []string  `json:"deliverables"`
}

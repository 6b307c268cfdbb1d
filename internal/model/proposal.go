package model

import (
	"time"

	"github.com/google/uuid"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

// Proposal is a freelancer's bid on an open project. At most one proposal
// per (project, freelancer) pair and at most one ACCEPTED per project.
type Proposal struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	Budget       float64
	Message      string
	Status       ProposalStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

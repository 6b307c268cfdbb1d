package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusCompleted ContractStatus = "COMPLETED"
)

// Contract binds a company and a freelancer after a proposal is accepted.
// TotalAmount equals the accepted proposal's budget; a project has at most
// one contract.
type Contract struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	CompanyID    uuid.UUID
	TotalAmount  float64
	Deadline     time.Time
	Status       ContractStatus
	CreatedAt    time.Time
}

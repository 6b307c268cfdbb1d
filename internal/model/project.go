package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "OPEN"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// Project is a posted job. FreelancerID is set exactly when the project
// leaves OPEN (a proposal was accepted).
type Project struct {
	ID           uuid.UUID
	Title        string
	Budget       float64
	Deadline     time.Time
	Status       ProjectStatus
	CompanyID    uuid.UUID
	FreelancerID *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

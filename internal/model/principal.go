package model

import "github.com/google/uuid"

const (
	RoleCompany    = "COMPANY"
	RoleFreelancer = "FREELANCER"
)

// Principal is the authenticated caller as resolved from the access token.
// The services only ever compare it against the ids stored on the contract.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsCompany() bool {
	return p.Role == RoleCompany
}

func (p Principal) IsFreelancer() bool {
	return p.Role == RoleFreelancer
}

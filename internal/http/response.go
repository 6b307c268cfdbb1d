package http

import (
	"time"

	"github.com/nurpe/workhub-contracts/internal/model"
)

type proposalResponse struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"project_id"`
	FreelancerID string  `json:"freelancer_id"`
	Budget       float64 `json:"budget"`
	Message      string  `json:"message"`
	Status       string  `json:"status"`
}

type projectResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Budget       float64 `json:"budget"`
	Deadline     string  `json:"deadline"`
	Status       string  `json:"status"`
	CompanyID    string  `json:"company_id"`
	FreelancerID *string `json:"freelancer_id,omitempty"`
}

type contractResponse struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"project_id"`
	FreelancerID string  `json:"freelancer_id"`
	CompanyID    string  `json:"company_id"`
	TotalAmount  float64 `json:"total_amount"`
	Deadline     string  `json:"deadline"`
	Status       string  `json:"status"`
}

type milestoneResponse struct {
	ID           string     `json:"id"`
	ContractID   string     `json:"contract_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Amount       float64    `json:"amount"`
	DueDate      string     `json:"due_date"`
	Deliverables []string   `json:"deliverables"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
}

func toProposalResponse(p model.Proposal) proposalResponse {
	return proposalResponse{
		ID:           p.ID.String(),
		ProjectID:    p.ProjectID.String(),
		FreelancerID: p.FreelancerID.String(),
		Budget:       p.Budget,
		Message:      p.Message,
		Status:       string(p.Status),
	}
}

func toProjectResponse(p model.Project) projectResponse {
	resp := projectResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Budget:    p.Budget,
		Deadline:  p.Deadline.Format(time.RFC3339),
		Status:    string(p.Status),
		CompanyID: p.CompanyID.String(),
	}
	if p.FreelancerID != nil {
		id := p.FreelancerID.String()
		resp.FreelancerID = &id
	}
	return resp
}

func toContractResponse(c model.Contract) contractResponse {
	return contractResponse{
		ID:           c.ID.String(),
		ProjectID:    c.ProjectID.String(),
		FreelancerID: c.FreelancerID.String(),
		CompanyID:    c.CompanyID.String(),
		TotalAmount:  c.TotalAmount,
		Deadline:     c.Deadline.Format(time.RFC3339),
		Status:       string(c.Status),
	}
}

func toMilestoneResponse(m model.Milestone) milestoneResponse {
	return milestoneResponse{
		ID:           m.ID.String(),
		ContractID:   m.ContractID.String(),
		Title:        m.Title,
		Description:  m.Description,
		Amount:       m.Amount,
		DueDate:      m.DueDate.Format(time.RFC3339),
		Deliverables: []string(m.Deliverables),
		Status:       string(m.Status),
		CompletedAt:  m.CompletedAt,
		ApprovedAt:   m.ApprovedAt,
		PaidAt:       m.PaidAt,
	}
}

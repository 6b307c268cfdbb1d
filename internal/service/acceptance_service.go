package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nurpe/workhub-contracts/internal/model"
	"github.com/nurpe/workhub-contracts/internal/repository"
)

// amountTolerance is the currency-rounding drift allowed between the sum of
// milestone amounts and the contract total.
const amountTolerance = 1.0

type AcceptanceStore interface {
	GetProposal(ctx context.Context, id uuid.UUID) (*model.Proposal, error)
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ProjectStatus(ctx context.Context, id uuid.UUID) (model.ProjectStatus, error)
	Accept(ctx context.Context, in repository.AcceptanceUpdate) (*repository.AcceptanceOutcome, error)
	Reject(ctx context.Context, proposalID uuid.UUID) error
}

type AcceptanceService struct {
	store AcceptanceStore
	log   zerolog.Logger
}

func NewAcceptanceService(store AcceptanceStore, log zerolog.Logger) *AcceptanceService {
	return &AcceptanceService{store: store, log: log}
}

type AcceptProposalInput struct {
	ProposalID uuid.UUID
	CompanyID  uuid.UUID
	Milestones []model.MilestoneSpec
}

type AcceptProposalResult struct {
	Proposal         model.Proposal
	Project          model.Project
	RejectedSiblings int64
	Contract         *model.Contract
	MilestoneCount   int
}

// AcceptProposal converts a pending proposal into an accepted one, flips the
// project to IN_PROGRESS, rejects pending siblings, and, when milestone specs
// are supplied, creates the contract and its schedule — all atomically.
// Without specs the workflow stops after the status flips: the buyer may
// accept first and shape the schedule in a follow-up call.
func (s *AcceptanceService) AcceptProposal(ctx context.Context, in AcceptProposalInput) (*AcceptProposalResult, error) {
	proposal, project, err := s.loadForDecision(ctx, in.ProposalID, in.CompanyID)
	if err != nil {
		return nil, err
	}

	update := repository.AcceptanceUpdate{
		ProposalID:   proposal.ID,
		ProjectID:    project.ID,
		FreelancerID: proposal.FreelancerID,
	}

	if len(in.Milestones) > 0 {
		if err := validateMilestoneSpecs(in.Milestones, proposal.Budget); err != nil {
			return nil, err
		}
		contract := &model.Contract{
			ID:           uuid.New(),
			ProjectID:    project.ID,
			FreelancerID: proposal.FreelancerID,
			CompanyID:    project.CompanyID,
			TotalAmount:  proposal.Budget,
			Deadline:     project.Deadline,
			Status:       model.ContractStatusActive,
		}
		update.Contract = contract
		update.Milestones = buildMilestones(contract.ID, in.Milestones)
	}

	outcome, err := s.store.Accept(ctx, update)
	if err != nil {
		if err == repository.ErrStaleStatus {
			return nil, fmt.Errorf("%w: proposal or project changed concurrently", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// re-read outside the transaction: anything but IN_PROGRESS here means
	// the atomic guarantee did not hold
	status, err := s.store.ProjectStatus(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: post-commit verification failed: %v", ErrInternal, err)
	}
	if status != model.ProjectStatusInProgress {
		s.log.Error().
			Str("project_id", project.ID.String()).
			Str("status", string(status)).
			Msg("project not IN_PROGRESS after committed acceptance")
		return nil, fmt.Errorf("%w: project status %s after acceptance", ErrInternal, status)
	}

	proposal.Status = model.ProposalStatusAccepted
	project.Status = model.ProjectStatusInProgress
	project.FreelancerID = &proposal.FreelancerID

	return &AcceptProposalResult{
		Proposal:         *proposal,
		Project:          *project,
		RejectedSiblings: outcome.RejectedSiblings,
		Contract:         outcome.Contract,
		MilestoneCount:   outcome.MilestoneCount,
	}, nil
}

// RejectProposal flips a single pending proposal to REJECTED. Same ownership
// and status preconditions as acceptance, no project side effects.
func (s *AcceptanceService) RejectProposal(ctx context.Context, proposalID, companyID uuid.UUID) (*model.Proposal, error) {
	proposal, _, err := s.loadForDecision(ctx, proposalID, companyID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Reject(ctx, proposalID); err != nil {
		if err == repository.ErrStaleStatus {
			return nil, fmt.Errorf("%w: proposal already processed", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	proposal.Status = model.ProposalStatusRejected
	return proposal, nil
}

// loadForDecision runs the shared precondition checks: proposal exists, the
// project belongs to the acting company, the proposal is still pending, and
// the project is still open. Each violation is a distinct error.
func (s *AcceptanceService) loadForDecision(ctx context.Context, proposalID, companyID uuid.UUID) (*model.Proposal, *model.Project, error) {
	proposal, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: proposal %s", ErrNotFound, proposalID)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	project, err := s.store.GetProject(ctx, proposal.ProjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: project %s missing for proposal %s", ErrInternal, proposal.ProjectID, proposalID)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if project.CompanyID != companyID {
		return nil, nil, fmt.Errorf("%w: project belongs to another company", ErrPermissionDenied)
	}
	if proposal.Status != model.ProposalStatusPending {
		return nil, nil, fmt.Errorf("%w: proposal already processed", ErrConflict)
	}
	if project.Status != model.ProjectStatusOpen {
		return nil, nil, fmt.Errorf("%w: project not open", ErrConflict)
	}

	return proposal, project, nil
}

func validateMilestoneSpecs(specs []model.MilestoneSpec, total float64) error {
	sum := 0.0
	for i, spec := range specs {
		if spec.Title == "" {
			return fmt.Errorf("%w: milestone %d title is required", ErrInvalidInput, i+1)
		}
		if spec.Amount <= 0 {
			return fmt.Errorf("%w: milestone %d amount must be positive", ErrInvalidInput, i+1)
		}
		if spec.DueDate.IsZero() {
			return fmt.Errorf("%w: milestone %d due date is required", ErrInvalidInput, i+1)
		}
		sum += spec.Amount
	}
	if math.Abs(sum-total) > amountTolerance {
		return fmt.Errorf("%w: milestone amounts sum to %.2f, contract total is %.2f", ErrInvalidInput, sum, total)
	}
	return nil
}

func buildMilestones(contractID uuid.UUID, specs []model.MilestoneSpec) []model.Milestone {
	milestones := make([]model.Milestone, 0, len(specs))
	for _, spec := range specs {
		milestones = append(milestones, model.Milestone{
			ID:           uuid.New(),
			ContractID:   contractID,
			Title:        spec.Title,
			Description:  spec.Description,
			Amount:       spec.Amount,
			DueDate:      spec.DueDate,
			Deliverables: datatypes.NewJSONSlice(append([]string(nil), spec.Deliverables...)),
			Status:       model.MilestoneStatusPending,
		})
	}
	return milestones
}

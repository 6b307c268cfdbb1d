package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/workhub-contracts/internal/model"
)

// ErrStaleStatus is returned when a conditional status update matched no
// rows: the entity moved out of the expected state between read and write.
var ErrStaleStatus = errors.New("stale status")

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// AcceptanceUpdate is the multi-entity write applied when a proposal is
// accepted. Contract is nil when the caller deferred the milestone schedule.
type AcceptanceUpdate struct {
	ProposalID   uuid.UUID
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	Contract     *model.Contract
	Milestones   []model.Milestone
}

type AcceptanceOutcome struct {
	RejectedSiblings int64
	Contract         *model.Contract
	MilestoneCount   int
}

func (r *ProposalRepository) GetProposal(ctx context.Context, id uuid.UUID) (*model.Proposal, error) {
	var proposal model.Proposal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, freelancer_id, budget, message, status, created_at, updated_at
		FROM proposals
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&proposal).Error; err != nil {
		return nil, err
	}
	if proposal.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &proposal, nil
}

func (r *ProposalRepository) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, title, budget, deadline, status, company_id, freelancer_id, created_at, updated_at
		FROM projects
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&project).Error; err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &project, nil
}

func (r *ProposalRepository) ProjectStatus(ctx context.Context, id uuid.UUID) (model.ProjectStatus, error) {
	var status model.ProjectStatus
	if err := r.db.WithContext(ctx).Raw(`
		SELECT status FROM projects WHERE id = ? LIMIT 1
	`, id).Scan(&status).Error; err != nil {
		return "", err
	}
	if status == "" {
		return "", gorm.ErrRecordNotFound
	}
	return status, nil
}

// Accept applies the acceptance as a single transaction. Every status write
// is guarded on the expected current status, so the losing side of a race
// observes ErrStaleStatus instead of double-applying.
func (r *ProposalRepository) Accept(ctx context.Context, in AcceptanceUpdate) (*AcceptanceOutcome, error) {
	var outcome AcceptanceOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE proposals
			SET status = ?, updated_at = NOW()
			WHERE id = ? AND status = ?
		`, model.ProposalStatusAccepted, in.ProposalID, model.ProposalStatusPending)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		res = tx.Exec(`
			UPDATE projects
			SET status = ?, freelancer_id = ?, updated_at = NOW()
			WHERE id = ? AND status = ?
		`, model.ProjectStatusInProgress, in.FreelancerID, in.ProjectID, model.ProjectStatusOpen)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		res = tx.Exec(`
			UPDATE proposals
			SET status = ?, updated_at = NOW()
			WHERE project_id = ? AND id <> ? AND status = ?
		`, model.ProposalStatusRejected, in.ProjectID, in.ProposalID, model.ProposalStatusPending)
		if res.Error != nil {
			return res.Error
		}
		outcome.RejectedSiblings = res.RowsAffected

		if in.Contract == nil {
			return nil
		}

		var saved model.Contract
		err := tx.Raw(`
			INSERT INTO contracts (id, project_id, freelancer_id, company_id, total_amount, deadline, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id, project_id, freelancer_id, company_id, total_amount, deadline, status, created_at
		`,
			in.Contract.ID,
			in.Contract.ProjectID,
			in.Contract.FreelancerID,
			in.Contract.CompanyID,
			in.Contract.TotalAmount,
			in.Contract.Deadline,
			in.Contract.Status,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		for _, m := range in.Milestones {
			if err := tx.Exec(`
				INSERT INTO milestones (id, contract_id, title, description, amount, due_date, deliverables, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, m.ID, saved.ID, m.Title, m.Description, m.Amount, m.DueDate, m.Deliverables, m.Status).Error; err != nil {
				return err
			}
		}

		outcome.Contract = &saved
		outcome.MilestoneCount = len(in.Milestones)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Reject flips a single PENDING proposal to REJECTED.
func (r *ProposalRepository) Reject(ctx context.Context, proposalID uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE proposals
		SET status = ?, updated_at = NOW()
		WHERE id = ? AND status = ?
	`, model.ProposalStatusRejected, proposalID, model.ProposalStatusPending)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

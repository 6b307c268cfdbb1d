package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/workhub-contracts/internal/model"
)

const milestoneColumns = `
	id, contract_id, title, description, amount, due_date, deliverables,
	status, completed_at, approved_at, paid_at, created_at, updated_at
`

type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) GetMilestone(ctx context.Context, id uuid.UUID) (*model.Milestone, error) {
	var milestone model.Milestone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+milestoneColumns+`
		FROM milestones
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&milestone).Error; err != nil {
		return nil, err
	}
	if milestone.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &milestone, nil
}

func (r *MilestoneRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, freelancer_id, company_id, total_amount, deadline, status, created_at
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contract).Error; err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *MilestoneRepository) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
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

func (r *MilestoneRepository) ListMilestones(ctx context.Context, contractID uuid.UUID) ([]model.Milestone, error) {
	var milestones []model.Milestone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+milestoneColumns+`
		FROM milestones
		WHERE contract_id = ?
		ORDER BY due_date ASC, created_at ASC
	`, contractID).Scan(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

// Transition moves a milestone from one status to another with a
// compare-and-swap on the current status. The per-state timestamp is only
// written when still NULL, so re-entering a state after a revision keeps the
// original stamp.
func (r *MilestoneRepository) Transition(ctx context.Context, id uuid.UUID, from, to model.MilestoneStatus, at time.Time) (*model.Milestone, error) {
	query := `
		UPDATE milestones
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
		RETURNING ` + milestoneColumns
	args := []interface{}{to, at, id, from}

	if column := stampColumn(to); column != "" {
		query = fmt.Sprintf(`
			UPDATE milestones
			SET status = ?, updated_at = ?, %s = COALESCE(%s, ?)
			WHERE id = ? AND status = ?
			RETURNING `+milestoneColumns, column, column)
		args = []interface{}{to, at, at, id, from}
	}

	var milestone model.Milestone
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&milestone).Error; err != nil {
		return nil, err
	}
	if milestone.ID != uuid.Nil {
		return &milestone, nil
	}

	// CAS miss: tell a vanished row apart from a concurrent transition
	if _, err := r.GetMilestone(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrStaleStatus
}

// CompleteContract marks the contract COMPLETED unless it already is.
// Returns whether this call performed the flip.
func (r *MilestoneRepository) CompleteContract(ctx context.Context, contractID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET status = ?
		WHERE id = ? AND status <> ?
	`, model.ContractStatusCompleted, contractID, model.ContractStatusCompleted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func stampColumn(to model.MilestoneStatus) string {
	switch to {
	case model.MilestoneStatusCompleted:
		return "completed_at"
	case model.MilestoneStatusApproved:
		return "approved_at"
	case model.MilestoneStatusPaid:
		return "paid_at"
	}
	return ""
}

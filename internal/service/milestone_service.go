package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/workhub-contracts/internal/model"
	"github.com/nurpe/workhub-contracts/internal/repository"
)

const defaultTransitionRetries = 3

type MilestoneStore interface {
	GetMilestone(ctx context.Context, id uuid.UUID) (*model.Milestone, error)
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	ListMilestones(ctx context.Context, contractID uuid.UUID) ([]model.Milestone, error)
	Transition(ctx context.Context, id uuid.UUID, from, to model.MilestoneStatus, at time.Time) (*model.Milestone, error)
	CompleteContract(ctx context.Context, contractID uuid.UUID) (bool, error)
}

// Notifier delivers a counter-party notification. Failures must never affect
// the committed transition; implementations are expected to be fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// milestoneAction describes one row of the transition table: who may invoke
// it and which single edge it attempts.
type milestoneAction struct {
	from  model.MilestoneStatus
	to    model.MilestoneStatus
	actor string
}

var milestoneActions = map[string]milestoneAction{
	"start":            {from: model.MilestoneStatusPending, to: model.MilestoneStatusInProgress, actor: model.RoleFreelancer},
	"complete":         {from: model.MilestoneStatusInProgress, to: model.MilestoneStatusCompleted, actor: model.RoleFreelancer},
	"request_revision": {from: model.MilestoneStatusCompleted, to: model.MilestoneStatusInProgress, actor: model.RoleCompany},
	"approve":          {from: model.MilestoneStatusCompleted, to: model.MilestoneStatusApproved, actor: model.RoleCompany},
	"pay":              {from: model.MilestoneStatusApproved, to: model.MilestoneStatusPaid, actor: model.RoleCompany},
}

type MilestoneService struct {
	store    MilestoneStore
	notifier Notifier
	log      zerolog.Logger
	retries  int
}

func NewMilestoneService(store MilestoneStore, notifier Notifier, log zerolog.Logger, retries int) *MilestoneService {
	if retries <= 0 {
		retries = defaultTransitionRetries
	}
	return &MilestoneService{store: store, notifier: notifier, log: log, retries: retries}
}

type TransitionInput struct {
	MilestoneID uuid.UUID
	ActorID     uuid.UUID
	Action      string
	Note        string
}

type TransitionResult struct {
	Milestone         model.Milestone
	Progress          model.ProgressSummary
	ContractCompleted bool
}

// TransitionMilestone applies a single role-gated action to a milestone. The
// status write is a compare-and-swap retried a bounded number of times; the
// contract-completion cascade and the counter-party notification run after
// the write and are best-effort.
func (s *MilestoneService) TransitionMilestone(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	action, ok := milestoneActions[in.Action]
	if !ok {
		return nil, fmt.Errorf("%w: invalid action %q", ErrConflict, in.Action)
	}

	milestone, err := s.store.GetMilestone(ctx, in.MilestoneID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: milestone %s", ErrNotFound, in.MilestoneID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	contract, err := s.store.GetContract(ctx, milestone.ContractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: contract %s missing for milestone %s", ErrInternal, milestone.ContractID, milestone.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// role gate comes before the state check
	if err := checkActor(action, contract, in.ActorID); err != nil {
		return nil, err
	}

	updated, err := s.applyTransition(ctx, milestone, action)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{Milestone: *updated}
	result.Progress, result.ContractCompleted = s.afterTransition(ctx, contract, updated)

	s.emitNotification(ctx, contract, updated, action, in)

	return result, nil
}

func checkActor(action milestoneAction, contract *model.Contract, actorID uuid.UUID) error {
	var expected uuid.UUID
	switch action.actor {
	case model.RoleCompany:
		expected = contract.CompanyID
	case model.RoleFreelancer:
		expected = contract.FreelancerID
	}
	if actorID != expected {
		return fmt.Errorf("%w: action reserved for the %s", ErrPermissionDenied, action.actor)
	}
	return nil
}

func (s *MilestoneService) applyTransition(ctx context.Context, milestone *model.Milestone, action milestoneAction) (*model.Milestone, error) {
	for attempt := 0; attempt < s.retries; attempt++ {
		if milestone.Status != action.from {
			return nil, fmt.Errorf("%w: invalid state %s for action", ErrConflict, milestone.Status)
		}

		updated, err := s.store.Transition(ctx, milestone.ID, action.from, action.to, time.Now().UTC())
		if err == nil {
			return updated, nil
		}
		if err == repository.ErrStaleStatus {
			// another actor raced us; re-read and re-check the state
			milestone, err = s.store.GetMilestone(ctx, milestone.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInternal, err)
			}
			continue
		}
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: milestone %s", ErrNotFound, milestone.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil, fmt.Errorf("%w: milestone kept changing concurrently", ErrConflict)
}

// afterTransition recomputes progress and cascades contract completion when
// every milestone reached PAID. Failures here are logged, never surfaced: the
// user-visible transition already committed.
func (s *MilestoneService) afterTransition(ctx context.Context, contract *model.Contract, updated *model.Milestone) (model.ProgressSummary, bool) {
	milestones, err := s.store.ListMilestones(ctx, contract.ID)
	if err != nil {
		s.log.Error().Err(err).
			Str("contract_id", contract.ID.String()).
			Msg("progress recompute failed after milestone transition")
		return model.ProgressSummary{}, false
	}

	progress := ComputeProgress(*contract, milestones)
	if !progress.AllPaid || contract.Status == model.ContractStatusCompleted {
		return progress, false
	}

	completed, err := s.store.CompleteContract(ctx, contract.ID)
	if err != nil {
		s.log.Error().Err(err).
			Str("contract_id", contract.ID.String()).
			Msg("contract completion cascade failed")
		return progress, false
	}
	return progress, completed
}

func (s *MilestoneService) emitNotification(ctx context.Context, contract *model.Contract, milestone *model.Milestone, action milestoneAction, in TransitionInput) {
	if s.notifier == nil {
		return
	}

	// the counter-party gets notified, not the actor
	recipient := contract.CompanyID
	if action.actor == model.RoleCompany {
		recipient = contract.FreelancerID
	}

	message := fmt.Sprintf("Milestone %q is now %s", milestone.Title, milestone.Status)
	if in.Action == "request_revision" && in.Note != "" {
		message = fmt.Sprintf("Revision requested for %q: %s", milestone.Title, in.Note)
	}

	err := s.notifier.Notify(ctx, model.Notification{
		RecipientID: recipient,
		Kind:        "milestone." + in.Action,
		Title:       "Milestone update",
		Message:     message,
		RelatedID:   milestone.ID,
	})
	if err != nil {
		s.log.Warn().Err(err).
			Str("milestone_id", milestone.ID.String()).
			Msg("milestone notification dropped")
	}
}

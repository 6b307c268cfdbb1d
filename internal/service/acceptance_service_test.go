package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/workhub-contracts/internal/model"
	"github.com/nurpe/workhub-contracts/internal/repository"
)

type acceptanceStoreMock struct {
	proposal *model.Proposal
	project  *model.Project

	siblings    int64
	acceptErr   error
	rejectErr   error
	statusErr   error
	statusAfter model.ProjectStatus

	acceptedWith *repository.AcceptanceUpdate
	rejectCalls  int
}

func (m *acceptanceStoreMock) GetProposal(_ context.Context, id uuid.UUID) (*model.Proposal, error) {
	if m.proposal == nil || m.proposal.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m.proposal
	return &copied, nil
}

func (m *acceptanceStoreMock) GetProject(_ context.Context, id uuid.UUID) (*model.Project, error) {
	if m.project == nil || m.project.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m.project
	return &copied, nil
}

func (m *acceptanceStoreMock) ProjectStatus(_ context.Context, _ uuid.UUID) (model.ProjectStatus, error) {
	if m.statusErr != nil {
		return "", m.statusErr
	}
	return m.statusAfter, nil
}

func (m *acceptanceStoreMock) Accept(_ context.Context, in repository.AcceptanceUpdate) (*repository.AcceptanceOutcome, error) {
	if m.acceptErr != nil {
		return nil, m.acceptErr
	}
	m.acceptedWith = &in
	outcome := &repository.AcceptanceOutcome{RejectedSiblings: m.siblings}
	if in.Contract != nil {
		saved := *in.Contract
		outcome.Contract = &saved
		outcome.MilestoneCount = len(in.Milestones)
	}
	return outcome, nil
}

func (m *acceptanceStoreMock) Reject(_ context.Context, _ uuid.UUID) error {
	m.rejectCalls++
	return m.rejectErr
}

func pendingFixture() (*acceptanceStoreMock, AcceptProposalInput) {
	companyID := uuid.New()
	freelancerID := uuid.New()
	project := &model.Project{
		ID:        uuid.New(),
		Title:     "Company site relaunch",
		Budget:    10000,
		Deadline:  time.Now().AddDate(0, 1, 0),
		Status:    model.ProjectStatusOpen,
		CompanyID: companyID,
	}
	proposal := &model.Proposal{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		FreelancerID: freelancerID,
		Budget:       10000,
		Status:       model.ProposalStatusPending,
	}
	store := &acceptanceStoreMock{
		proposal:    proposal,
		project:     project,
		siblings:    2,
		statusAfter: model.ProjectStatusInProgress,
	}
	input := AcceptProposalInput{
		ProposalID: proposal.ID,
		CompanyID:  companyID,
		Milestones: []model.MilestoneSpec{
			{Title: "Design", Amount: 3000, DueDate: time.Now().AddDate(0, 0, 7)},
			{Title: "Build", Amount: 5000, DueDate: time.Now().AddDate(0, 0, 21)},
			{Title: "Launch", Amount: 2000, DueDate: time.Now().AddDate(0, 0, 28)},
		},
	}
	return store, input
}

func newAcceptanceService(store AcceptanceStore) *AcceptanceService {
	return NewAcceptanceService(store, zerolog.Nop())
}

func TestAcceptProposalCreatesContractAndSchedule(t *testing.T) {
	store, input := pendingFixture()
	svc := newAcceptanceService(store)

	result, err := svc.AcceptProposal(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, model.ProposalStatusAccepted, result.Proposal.Status)
	require.Equal(t, model.ProjectStatusInProgress, result.Project.Status)
	require.NotNil(t, result.Project.FreelancerID)
	require.Equal(t, store.proposal.FreelancerID, *result.Project.FreelancerID)
	require.Equal(t, int64(2), result.RejectedSiblings)
	require.Equal(t, 3, result.MilestoneCount)

	require.NotNil(t, result.Contract)
	require.Equal(t, store.proposal.Budget, result.Contract.TotalAmount)
	require.Equal(t, store.project.Deadline, result.Contract.Deadline)
	require.Equal(t, model.ContractStatusActive, result.Contract.Status)

	require.NotNil(t, store.acceptedWith)
	require.Len(t, store.acceptedWith.Milestones, 3)
	for _, m := range store.acceptedWith.Milestones {
		require.Equal(t, model.MilestoneStatusPending, m.Status)
		require.Equal(t, result.Contract.ID, m.ContractID)
	}
}

func TestAcceptProposalWithoutMilestonesSkipsContract(t *testing.T) {
	store, input := pendingFixture()
	input.Milestones = nil
	svc := newAcceptanceService(store)

	result, err := svc.AcceptProposal(context.Background(), input)
	require.NoError(t, err)

	require.Nil(t, result.Contract)
	require.Equal(t, 0, result.MilestoneCount)
	require.Equal(t, model.ProjectStatusInProgress, result.Project.Status)
	require.NotNil(t, store.acceptedWith)
	require.Nil(t, store.acceptedWith.Contract)
}

func TestAcceptProposalAmountMismatchRejectedBeforeWrite(t *testing.T) {
	store, input := pendingFixture()
	input.Milestones[2].Amount = 2500 // sum 10500 vs total 10000
	svc := newAcceptanceService(store)

	_, err := svc.AcceptProposal(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Nil(t, store.acceptedWith)
}

func TestAcceptProposalAllowsRoundingDrift(t *testing.T) {
	store, input := pendingFixture()
	input.Milestones[2].Amount = 2001 // within the one-unit tolerance
	svc := newAcceptanceService(store)

	_, err := svc.AcceptProposal(context.Background(), input)
	require.NoError(t, err)
}

func TestAcceptProposalValidatesSpecs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(specs []model.MilestoneSpec)
	}{
		{"missing title", func(specs []model.MilestoneSpec) { specs[0].Title = "" }},
		{"zero amount", func(specs []model.MilestoneSpec) { specs[1].Amount = 0 }},
		{"negative amount", func(specs []model.MilestoneSpec) { specs[1].Amount = -100 }},
		{"missing due date", func(specs []model.MilestoneSpec) { specs[2].DueDate = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, input := pendingFixture()
			tc.mutate(input.Milestones)
			svc := newAcceptanceService(store)

			_, err := svc.AcceptProposal(context.Background(), input)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Nil(t, store.acceptedWith)
		})
	}
}

func TestAcceptProposalPreconditions(t *testing.T) {
	t.Run("proposal not found", func(t *testing.T) {
		store, input := pendingFixture()
		input.ProposalID = uuid.New()
		svc := newAcceptanceService(store)

		_, err := svc.AcceptProposal(context.Background(), input)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign company", func(t *testing.T) {
		store, input := pendingFixture()
		input.CompanyID = uuid.New()
		svc := newAcceptanceService(store)

		_, err := svc.AcceptProposal(context.Background(), input)
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("proposal already processed", func(t *testing.T) {
		store, input := pendingFixture()
		store.proposal.Status = model.ProposalStatusAccepted
		svc := newAcceptanceService(store)

		_, err := svc.AcceptProposal(context.Background(), input)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("project not open", func(t *testing.T) {
		store, input := pendingFixture()
		store.project.Status = model.ProjectStatusInProgress
		svc := newAcceptanceService(store)

		_, err := svc.AcceptProposal(context.Background(), input)
		require.ErrorIs(t, err, ErrConflict)
	})
}

func TestAcceptProposalLostRaceIsConflict(t *testing.T) {
	store, input := pendingFixture()
	store.acceptErr = repository.ErrStaleStatus
	svc := newAcceptanceService(store)

	_, err := svc.AcceptProposal(context.Background(), input)
	require.ErrorIs(t, err, ErrConflict)
}

func TestAcceptProposalPostCommitVerification(t *testing.T) {
	store, input := pendingFixture()
	store.statusAfter = model.ProjectStatusOpen
	svc := newAcceptanceService(store)

	_, err := svc.AcceptProposal(context.Background(), input)
	require.ErrorIs(t, err, ErrInternal)

	store, input = pendingFixture()
	store.statusErr = errors.New("connection reset")
	svc = newAcceptanceService(store)

	_, err = svc.AcceptProposal(context.Background(), input)
	require.ErrorIs(t, err, ErrInternal)
}

func TestRejectProposal(t *testing.T) {
	store, input := pendingFixture()
	svc := newAcceptanceService(store)

	proposal, err := svc.RejectProposal(context.Background(), input.ProposalID, input.CompanyID)
	require.NoError(t, err)
	require.Equal(t, model.ProposalStatusRejected, proposal.Status)
	require.Equal(t, 1, store.rejectCalls)
}

func TestRejectProposalLostRaceIsConflict(t *testing.T) {
	store, input := pendingFixture()
	store.rejectErr = repository.ErrStaleStatus
	svc := newAcceptanceService(store)

	_, err := svc.RejectProposal(context.Background(), input.ProposalID, input.CompanyID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestRejectProposalSharesPreconditions(t *testing.T) {
	store, input := pendingFixture()
	store.proposal.Status = model.ProposalStatusRejected
	svc := newAcceptanceService(store)

	_, err := svc.RejectProposal(context.Background(), input.ProposalID, input.CompanyID)
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 0, store.rejectCalls)
}

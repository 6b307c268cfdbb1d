package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/workhub-contracts/internal/model"
)

func testContract(total float64) model.Contract {
	return model.Contract{
		ID:          uuid.New(),
		TotalAmount: total,
		Status:      model.ContractStatusActive,
	}
}

func milestonesWithStatuses(amounts []float64, statuses []model.MilestoneStatus) []model.Milestone {
	milestones := make([]model.Milestone, len(amounts))
	for i := range amounts {
		milestones[i] = model.Milestone{
			ID:     uuid.New(),
			Amount: amounts[i],
			Status: statuses[i],
		}
	}
	return milestones
}

func TestComputeProgressEmptySet(t *testing.T) {
	summary := ComputeProgress(testContract(10000), nil)

	require.Equal(t, 0, summary.TotalMilestones)
	require.Equal(t, 0, summary.ProgressPercent)
	require.Equal(t, 0.0, summary.PaidValue)
	require.Equal(t, 10000.0, summary.PendingValue)
	require.False(t, summary.AllPaid)
}

func TestComputeProgressCountsCompletedAndBeyond(t *testing.T) {
	contract := testContract(10000)
	amounts := []float64{3000, 5000, 2000}

	summary := ComputeProgress(contract, milestonesWithStatuses(amounts, []model.MilestoneStatus{
		model.MilestoneStatusCompleted,
		model.MilestoneStatusPending,
		model.MilestoneStatusPending,
	}))
	require.Equal(t, 1, summary.CompletedCount)
	require.Equal(t, 33, summary.ProgressPercent)
	require.Equal(t, 0.0, summary.PaidValue)

	// approving and paying the same milestone keeps the count at one
	summary = ComputeProgress(contract, milestonesWithStatuses(amounts, []model.MilestoneStatus{
		model.MilestoneStatusApproved,
		model.MilestoneStatusPending,
		model.MilestoneStatusPending,
	}))
	require.Equal(t, 1, summary.CompletedCount)
	require.Equal(t, 33, summary.ProgressPercent)
	require.Equal(t, 0.0, summary.PaidValue)

	summary = ComputeProgress(contract, milestonesWithStatuses(amounts, []model.MilestoneStatus{
		model.MilestoneStatusPaid,
		model.MilestoneStatusPending,
		model.MilestoneStatusPending,
	}))
	require.Equal(t, 33, summary.ProgressPercent)
	require.Equal(t, 3000.0, summary.PaidValue)
	require.Equal(t, 7000.0, summary.PendingValue)
	require.False(t, summary.AllPaid)
}

func TestComputeProgressAllPaid(t *testing.T) {
	contract := testContract(10000)
	amounts := []float64{3000, 5000, 2000}

	summary := ComputeProgress(contract, milestonesWithStatuses(amounts, []model.MilestoneStatus{
		model.MilestoneStatusPaid,
		model.MilestoneStatusPaid,
		model.MilestoneStatusPaid,
	}))
	require.Equal(t, 3, summary.CompletedCount)
	require.Equal(t, 100, summary.ProgressPercent)
	require.Equal(t, 10000.0, summary.PaidValue)
	require.Equal(t, 0.0, summary.PendingValue)
	require.True(t, summary.AllPaid)

	// APPROVED is not PAID
	summary = ComputeProgress(contract, milestonesWithStatuses(amounts, []model.MilestoneStatus{
		model.MilestoneStatusPaid,
		model.MilestoneStatusPaid,
		model.MilestoneStatusApproved,
	}))
	require.Equal(t, 100, summary.ProgressPercent)
	require.False(t, summary.AllPaid)
}

func TestComputeProgressMonotonic(t *testing.T) {
	contract := testContract(6000)
	amounts := []float64{2000, 2000, 2000}

	path := []model.MilestoneStatus{
		model.MilestoneStatusPending,
		model.MilestoneStatusInProgress,
		model.MilestoneStatusCompleted,
		model.MilestoneStatusApproved,
		model.MilestoneStatusPaid,
	}

	previous := -1
	for _, status := range path {
		summary := ComputeProgress(contract, milestonesWithStatuses(amounts, []model.MilestoneStatus{
			status,
			model.MilestoneStatusPending,
			model.MilestoneStatusPending,
		}))
		require.GreaterOrEqual(t, summary.ProgressPercent, previous)
		previous = summary.ProgressPercent
	}
}

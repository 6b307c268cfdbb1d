package service

import (
	"math"

	"github.com/nurpe/workhub-contracts/internal/model"
)

// ComputeProgress derives the progress summary for a contract from its
// milestone set. Pure and side-effect free; callers decide whether to cache.
func ComputeProgress(contract model.Contract, milestones []model.Milestone) model.ProgressSummary {
	summary := model.ProgressSummary{
		TotalMilestones: len(milestones),
		PendingValue:    contract.TotalAmount,
	}

	paidCount := 0
	for _, m := range milestones {
		switch m.Status {
		case model.MilestoneStatusCompleted, model.MilestoneStatusApproved:
			summary.CompletedCount++
		case model.MilestoneStatusPaid:
			summary.CompletedCount++
			summary.PaidValue += m.Amount
			paidCount++
		}
	}

	if summary.TotalMilestones > 0 {
		ratio := float64(summary.CompletedCount) / float64(summary.TotalMilestones)
		summary.ProgressPercent = int(math.Round(ratio * 100))
	}

	summary.PendingValue = contract.TotalAmount - summary.PaidValue
	// an empty schedule never counts as fully paid
	summary.AllPaid = summary.TotalMilestones > 0 && paidCount == summary.TotalMilestones

	return summary
}

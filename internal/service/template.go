package service

import (
	"math"
	"strings"
	"time"

	"github.com/nurpe/workhub-contracts/internal/model"
)

type templateStage struct {
	Title        string
	Description  string
	Percent      float64
	Deliverables []string
}

const defaultTemplateKey = "custom"

// minimum schedule length in days, applied when the deadline is near or past
const minScheduleDays = 14

// Catalog of milestone breakdowns per project type. Adding a template is a
// data change, not a control-flow change.
var templateCatalog = map[string][]templateStage{
	"website": {
		{
			Title:        "Design & Prototype",
			Description:  "Wireframes and visual design for all key pages",
			Percent:      30,
			Deliverables: []string{"Wireframes", "Visual design", "Clickable prototype"},
		},
		{
			Title:        "Development",
			Description:  "Implementation of the approved design",
			Percent:      50,
			Deliverables: []string{"Implemented pages", "CMS integration", "Staging deployment"},
		},
		{
			Title:        "Launch & Handover",
			Description:  "Production launch and project handover",
			Percent:      20,
			Deliverables: []string{"Production deployment", "Documentation", "Source code"},
		},
	},
	"app": {
		{
			Title:        "Discovery & UX",
			Description:  "User flows and screen designs",
			Percent:      25,
			Deliverables: []string{"User flows", "Screen designs", "Design system"},
		},
		{
			Title:        "Core Development",
			Description:  "Main application features",
			Percent:      45,
			Deliverables: []string{"Core features", "API integration", "Internal build"},
		},
		{
			Title:        "Beta & QA",
			Description:  "Testing and stabilization",
			Percent:      20,
			Deliverables: []string{"Beta build", "Test report", "Bug fixes"},
		},
		{
			Title:        "Store Release",
			Description:  "Publication and release support",
			Percent:      10,
			Deliverables: []string{"Store listing", "Release build", "Handover notes"},
		},
	},
	"ecommerce": {
		{
			Title:        "Catalog & Design",
			Description:  "Store structure and product presentation",
			Percent:      20,
			Deliverables: []string{"Catalog structure", "Page designs"},
		},
		{
			Title:        "Storefront Development",
			Description:  "Customer-facing store implementation",
			Percent:      30,
			Deliverables: []string{"Product pages", "Cart", "Search"},
		},
		{
			Title:        "Checkout & Payments",
			Description:  "Order flow and payment integration",
			Percent:      30,
			Deliverables: []string{"Checkout flow", "Payment integration", "Order emails"},
		},
		{
			Title:        "Launch",
			Description:  "Go-live and handover",
			Percent:      20,
			Deliverables: []string{"Production deployment", "Admin training", "Documentation"},
		},
	},
	"custom": {
		{
			Title:        "Kickoff",
			Description:  "Initial scope and first deliverable",
			Percent:      25,
			Deliverables: []string{"Agreed scope", "First deliverable"},
		},
		{
			Title:        "Main Delivery",
			Description:  "Bulk of the agreed work",
			Percent:      50,
			Deliverables: []string{"Main deliverables"},
		},
		{
			Title:        "Final Handover",
			Description:  "Remaining work and handover",
			Percent:      25,
			Deliverables: []string{"Final deliverables", "Handover"},
		},
	},
}

// GenerateSchedule produces a proposed milestone schedule for a budget and
// project deadline. It is a scheduling heuristic only; the caller may edit
// every field before submission, and the acceptance workflow re-validates
// that the amounts reconcile with the contract total.
func GenerateSchedule(budget float64, deadline time.Time, templateKey string) []model.MilestoneSpec {
	return generateScheduleAt(budget, deadline, templateKey, time.Now())
}

func generateScheduleAt(budget float64, deadline time.Time, templateKey string, now time.Time) []model.MilestoneSpec {
	stages, ok := templateCatalog[normalizeTemplateKey(templateKey)]
	if !ok {
		stages = templateCatalog[defaultTemplateKey]
	}

	durationDays := int(deadline.Sub(now).Hours() / 24)
	if durationDays < minScheduleDays {
		durationDays = minScheduleDays
	}

	specs := make([]model.MilestoneSpec, 0, len(stages))
	cumulative := 0.0
	for _, stage := range stages {
		cumulative += stage.Percent
		offsetDays := int(math.Floor(float64(durationDays) * cumulative / 100))
		specs = append(specs, model.MilestoneSpec{
			Title:        stage.Title,
			Description:  stage.Description,
			Amount:       math.Round(budget * stage.Percent / 100),
			DueDate:      now.AddDate(0, 0, offsetDays),
			Deliverables: append([]string(nil), stage.Deliverables...),
		})
	}
	return specs
}

func normalizeTemplateKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// TemplateKeys lists the catalog keys in a stable order for API consumers.
func TemplateKeys() []string {
	return []string{"website", "app", "ecommerce", "custom"}
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/workhub-contracts/internal/http/middleware"
	"github.com/nurpe/workhub-contracts/internal/model"
	"github.com/nurpe/workhub-contracts/internal/service"
)

type Handler struct {
	acceptance *service.AcceptanceService
	milestones *service.MilestoneService
	statements *service.StatementService
	log        zerolog.Logger
}

func NewHandler(
	acceptance *service.AcceptanceService,
	milestones *service.MilestoneService,
	statements *service.StatementService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		acceptance: acceptance,
		milestones: milestones,
		statements: statements,
		log:        log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/proposals/:id/accept", h.acceptProposal)
	protected.POST("/proposals/:id/reject", h.rejectProposal)
	protected.POST("/milestones/:id/actions", h.transitionMilestone)
	protected.GET("/contracts/:id/progress", h.contractProgress)
	protected.GET("/contracts/:id/statement/pdf", h.exportStatementPDF)
	protected.GET("/contracts/:id/statement/xlsx", h.exportStatementExcel)
	protected.POST("/milestone-templates", h.generateTemplate)
}

type milestoneSpecRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Amount       float64  `json:"amount"`
	DueDate      string   `json:"due_date"`
	Deliverables []string `json:"deliverables"`
}

type acceptProposalRequest struct {
	Milestones []milestoneSpecRequest `json:"milestones"`
}

func (h *Handler) acceptProposal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	proposalID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	// milestones are optional: an empty body accepts without a contract
	var req acceptProposalRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	specs := make([]model.MilestoneSpec, 0, len(req.Milestones))
	for _, raw := range req.Milestones {
		dueDate, err := parseDate(raw.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone due_date"})
			return
		}
		specs = append(specs, model.MilestoneSpec{
			Title:        raw.Title,
			Description:  raw.Description,
			Amount:       raw.Amount,
			DueDate:      dueDate,
			Deliverables: raw.Deliverables,
		})
	}

	result, err := h.acceptance.AcceptProposal(c.Request.Context(), service.AcceptProposalInput{
		ProposalID: proposalID,
		CompanyID:  principal.UserID,
		Milestones: specs,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	response := gin.H{
		"proposal":          toProposalResponse(result.Proposal),
		"project":           toProjectResponse(result.Project),
		"rejected_siblings": result.RejectedSiblings,
		"contract":          nil,
		"milestone_count":   result.MilestoneCount,
	}
	if result.Contract != nil {
		response["contract"] = toContractResponse(*result.Contract)
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) rejectProposal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	proposalID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	proposal, err := h.acceptance.RejectProposal(c.Request.Context(), proposalID, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": toProposalResponse(*proposal)})
}

type transitionRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

func (h *Handler) transitionMilestone(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	milestoneID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone id"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.milestones.TransitionMilestone(c.Request.Context(), service.TransitionInput{
		MilestoneID: milestoneID,
		ActorID:     principal.UserID,
		Action:      strings.ToLower(strings.TrimSpace(req.Action)),
		Note:        req.Note,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"milestone":          toMilestoneResponse(result.Milestone),
		"progress":           result.Progress,
		"contract_completed": result.ContractCompleted,
	})
}

func (h *Handler) contractProgress(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	progress, err := h.statements.GetProgress(c.Request.Context(), contractID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

func (h *Handler) exportStatementPDF(c *gin.Context) {
	h.exportStatement(c, "application/pdf", h.statements.ExportPDF)
}

func (h *Handler) exportStatementExcel(c *gin.Context) {
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	h.exportStatement(c, contentType, h.statements.ExportExcel)
}

func (h *Handler) exportStatement(
	c *gin.Context,
	contentType string,
	export func(ctx context.Context, id uuid.UUID, p model.Principal) (*service.ExportResult, error),
) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	result, err := export(c.Request.Context(), contractID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

type templateRequest struct {
	Budget   float64 `json:"budget" binding:"required"`
	Deadline string  `json:"deadline" binding:"required"`
	Template string  `json:"template"`
}

func (h *Handler) generateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Budget <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget must be positive"})
		return
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline"})
		return
	}

	specs := service.GenerateSchedule(req.Budget, deadline, req.Template)
	c.JSON(http.StatusOK, gin.H{"milestones": specs})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

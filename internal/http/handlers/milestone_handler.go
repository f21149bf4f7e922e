package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/dto"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/models"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/service"
)

// MilestoneHandler отвечает за этапы контракта.
type MilestoneHandler struct {
	svc *service.MilestoneService
}

// NewMilestoneHandler создаёт новый хэндлер.
func NewMilestoneHandler(s *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{svc: s}
}

// Create POST /milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateMilestoneRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		common.RespondBadRequest(c, "contract_id должен быть валидным UUID")
		return
	}

	milestone, err := h.svc.CreateMilestone(c.Request.Context(), userID, service.CreateMilestoneInput{
		ContractID:  contractID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

// ListByContract GET /contracts/:id/milestones
func (h *MilestoneHandler) ListByContract(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	milestones, err := h.svc.ListContractMilestones(c.Request.Context(), contractID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, milestones)
}

// Start POST /milestones/:id/start
func (h *MilestoneHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

// Submit POST /milestones/:id/submit
func (h *MilestoneHandler) Submit(c *gin.Context) {
	h.transition(c, h.svc.Submit)
}

// Approve POST /milestones/:id/approve
func (h *MilestoneHandler) Approve(c *gin.Context) {
	h.transition(c, h.svc.Approve)
}

// RequestRevision POST /milestones/:id/revision
func (h *MilestoneHandler) RequestRevision(c *gin.Context) {
	h.transition(c, h.svc.RequestRevision)
}

// ReleasePayment POST /milestones/:id/pay
func (h *MilestoneHandler) ReleasePayment(c *gin.Context) {
	h.transition(c, h.svc.ReleasePayment)
}

func (h *MilestoneHandler) transition(c *gin.Context, fn func(ctx context.Context, milestoneID, actorID uuid.UUID) (*models.Milestone, error)) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	milestoneID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	milestone, err := fn(c.Request.Context(), milestoneID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, milestone)
}

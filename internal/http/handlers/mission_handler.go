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

// MissionHandler отвечает за размещение и жизненный цикл миссий.
type MissionHandler struct {
	svc *service.MissionService
}

// NewMissionHandler создаёт новый хэндлер.
func NewMissionHandler(s *service.MissionService) *MissionHandler {
	return &MissionHandler{svc: s}
}

// Create POST /missions
func (h *MissionHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateMissionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	mission, err := h.svc.CreateMission(c.Request.Context(), userID, service.CreateMissionInput{
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Currency:    req.Currency,
		DeadlineAt:  req.DeadlineAt,
		Publish:     req.Publish,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mission)
}

// Get GET /missions/:id
func (h *MissionHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)

	missionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	mission, err := h.svc.GetMission(c.Request.Context(), missionID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, mission)
}

// Publish POST /missions/:id/publish
func (h *MissionHandler) Publish(c *gin.Context) {
	h.transition(c, h.svc.Publish)
}

// Cancel POST /missions/:id/cancel
func (h *MissionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

// ListMy GET /missions/my
func (h *MissionHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	missions, err := h.svc.ListClientMissions(c.Request.Context(), userID, c.Query("status"), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: missions, Limit: limit, Offset: offset})
}

// ListPublished GET /missions
func (h *MissionHandler) ListPublished(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	missions, err := h.svc.ListPublishedMissions(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: missions, Limit: limit, Offset: offset})
}

func (h *MissionHandler) transition(c *gin.Context, fn func(ctx context.Context, missionID, actorID uuid.UUID) (*models.Mission, error)) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	missionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	mission, err := fn(c.Request.Context(), missionID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, mission)
}

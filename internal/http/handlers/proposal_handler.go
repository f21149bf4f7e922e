package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/dto"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/service"
)

// ProposalHandler отвечает за отклики на миссии.
type ProposalHandler struct {
	svc *service.ProposalService
}

// NewProposalHandler создаёт новый хэндлер.
func NewProposalHandler(s *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{svc: s}
}

// Create POST /proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	missionID, err := uuid.Parse(req.MissionID)
	if err != nil {
		common.RespondBadRequest(c, "mission_id должен быть валидным UUID")
		return
	}

	proposal, err := h.svc.CreateProposal(c.Request.Context(), userID, service.CreateProposalInput{
		MissionID:      missionID,
		CoverLetter:    req.CoverLetter,
		ProposedAmount: req.ProposedAmount,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// ListByMission GET /missions/:id/proposals
func (h *ProposalHandler) ListByMission(c *gin.Context) {
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

	limit, offset := common.GetPagination(c)
	proposals, err := h.svc.ListMissionProposals(c.Request.Context(), missionID, userID, role, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: proposals, Limit: limit, Offset: offset})
}

// ListMy GET /proposals/my
func (h *ProposalHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	proposals, err := h.svc.ListMyProposals(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: proposals, Limit: limit, Offset: offset})
}

// Shortlist POST /proposals/:id/shortlist
func (h *ProposalHandler) Shortlist(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.svc.Shortlist(c.Request.Context(), proposalID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Accept POST /proposals/:id/accept
func (h *ProposalHandler) Accept(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.AcceptProposalRequest
	// Тело опционально: контракт можно создать без условий.
	_ = c.ShouldBindJSON(&req)

	contract, err := h.svc.AcceptProposal(c.Request.Context(), proposalID, userID, req.Terms)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

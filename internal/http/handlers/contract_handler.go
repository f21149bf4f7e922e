package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/dto"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/service"
)

// ContractHandler отвечает за подписание и завершение контрактов.
type ContractHandler struct {
	svc *service.ContractService
}

// NewContractHandler создаёт новый хэндлер.
func NewContractHandler(s *service.ContractService) *ContractHandler {
	return &ContractHandler{svc: s}
}

// Get GET /contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
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

	contract, err := h.svc.GetContract(c.Request.Context(), contractID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// GetByMission GET /missions/:id/contract
func (h *ContractHandler) GetByMission(c *gin.Context) {
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

	contract, err := h.svc.GetMissionContract(c.Request.Context(), missionID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// ListMy GET /contracts
func (h *ContractHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	contracts, err := h.svc.ListUserContracts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Items: contracts, Limit: limit, Offset: offset})
}

// Sign POST /contracts/:id/sign
func (h *ContractHandler) Sign(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contract, err := h.svc.Sign(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Complete POST /contracts/:id/complete
func (h *ContractHandler) Complete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contract, err := h.svc.Complete(c.Request.Context(), contractID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

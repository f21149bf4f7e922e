package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/service"
)

// EvidenceHandler отвечает за файлы-доказательства по спорам.
type EvidenceHandler struct {
	svc *service.EvidenceService
}

// NewEvidenceHandler создаёт новый хэндлер.
func NewEvidenceHandler(s *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{svc: s}
}

// Upload POST /disputes/messages/:id/evidence
func (h *EvidenceHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	messageID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "файл обязателен")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}
	defer f.Close()

	evidence, err := h.svc.Attach(c.Request.Context(), messageID, userID, fileHeader.Filename, f)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, evidence)
}

// ListByMessage GET /disputes/messages/:id/evidence
func (h *EvidenceHandler) ListByMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)

	messageID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	files, err := h.svc.ListByMessage(c.Request.Context(), messageID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, files)
}

// Download GET /evidence/:id
func (h *EvidenceHandler) Download(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)

	fileID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	meta, f, err := h.svc.Open(c.Request.Context(), fileID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", meta.FileType)
	c.Header("Content-Length", strconv.FormatInt(meta.FileSize, 10))
	c.DataFromReader(http.StatusOK, meta.FileSize, meta.FileType, f, nil)
}

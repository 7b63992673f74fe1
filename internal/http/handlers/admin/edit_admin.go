package admin

import (
	"errors"
	"strings"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ProposeEditRequest 受控变更暂存请求
type ProposeEditRequest struct {
	EntityType string                 `json:"entity_type" binding:"required"`
	EntityID   uint                   `json:"entity_id" binding:"required"`
	Changes    map[string]interface{} `json:"changes" binding:"required"`
}

// ProposeEdit 暂存受控变更，返回确认句柄
// 此阶段不修改目标实体；同一实体重复暂存时后者覆盖前者。
func (h *Handler) ProposeEdit(c *gin.Context) {
	var req ProposeEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	edit, err := h.GatedEditService.Propose(req.EntityType, req.EntityID, req.Changes, getUsername(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrZoneNotFound):
			respondError(c, response.CodeNotFound, "entity not found", nil)
		default:
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		}
		return
	}
	response.Success(c, edit)
}

// ConfirmEditRequest 受控变更确认请求
type ConfirmEditRequest struct {
	Code string `json:"code" binding:"required"`
}

// ConfirmEdit 凭确认码提交暂存的受控变更并追加审计记录
func (h *Handler) ConfirmEdit(c *gin.Context) {
	handle := strings.TrimSpace(c.Param("handle"))
	if handle == "" {
		respondError(c, response.CodeBadRequest, "handle is required", nil)
		return
	}

	var req ConfirmEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.GatedEditService.Confirm(handle, req.Code, getRequestID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrConfirmationCode):
			respondError(c, response.CodeForbidden, "confirmation code incorrect", nil)
		case errors.Is(err, service.ErrStaleEdit):
			respondError(c, response.CodeConflict, "nothing to confirm", nil)
		default:
			respondError(c, response.CodeInternal, "confirm edit failed", err)
		}
		return
	}
	response.SuccessWithMsg(c, "committed", nil)
}

// CancelEdit 丢弃暂存的受控变更
func (h *Handler) CancelEdit(c *gin.Context) {
	handle := strings.TrimSpace(c.Param("handle"))
	if handle == "" {
		respondError(c, response.CodeBadRequest, "handle is required", nil)
		return
	}

	if err := h.GatedEditService.Cancel(handle); err != nil {
		if errors.Is(err, service.ErrStaleEdit) {
			respondError(c, response.CodeConflict, "nothing to cancel", nil)
			return
		}
		respondError(c, response.CodeInternal, "cancel edit failed", err)
		return
	}
	response.SuccessWithMsg(c, "discarded", nil)
}

// ListPendingEdits 列出暂存中的受控变更
func (h *Handler) ListPendingEdits(c *gin.Context) {
	response.Success(c, h.GatedEditService.Pending())
}

package admin

import (
	"strconv"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/http/response"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuditEntries 获取受控变更审计记录列表（仅追加，不可修改）
func (h *Handler) ListAuditEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var entityID uint
	if raw := c.Query("entity_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			entityID = uint(parsed)
		}
	}

	entries, total, err := h.AuditEntryRepo.List(repository.AuditEntryListFilter{
		Page:       page,
		PageSize:   pageSize,
		EntityType: c.Query("entity_type"),
		EntityID:   entityID,
		Operator:   c.Query("operator"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "audit fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, entries, pagination)
}

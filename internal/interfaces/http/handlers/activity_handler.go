package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/interfaces/http/response"
	"nft-storefront.backend/pkg/utils"
)

type activityService interface {
	List(ctx context.Context, sessionID string, pagination utils.PaginationParams) ([]*entities.Activity, *utils.PaginationMeta, error)
}

// ActivityHandler lists the write attempts of a session
type ActivityHandler struct {
	activities activityService
}

func NewActivityHandler(activities activityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// ListActivity returns the session's activity, newest first
// GET /api/v1/activity?page=&limit=
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}

	var pagination utils.PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid pagination"))
		return
	}

	items, meta, err := h.activities.List(c.Request.Context(), session.ID, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items":      items,
		"pagination": meta,
	})
}

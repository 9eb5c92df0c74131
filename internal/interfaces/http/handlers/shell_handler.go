package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/interfaces/http/response"
	"nft-storefront.backend/internal/usecases"
)

type shellService interface {
	View(ctx context.Context, id string) (*entities.ShellView, error)
}

type tabSelector interface {
	SelectTab(ctx context.Context, id string, tab entities.Tab) (*entities.WalletSession, error)
}

// ShellHandler serves the presentation shell state
type ShellHandler struct {
	shell shellService
	tabs  tabSelector
}

func NewShellHandler(shell shellService, tabs tabSelector) *ShellHandler {
	return &ShellHandler{shell: shell, tabs: tabs}
}

// SelectTabRequest is the body of PUT /shell/tab
type SelectTabRequest struct {
	Tab entities.Tab `json:"tab" binding:"required"`
}

// GetShell returns the shell of the calling session
// GET /api/v1/shell
func (h *ShellHandler) GetShell(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}

	view, err := h.shell.View(c.Request.Context(), session.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SelectTab switches the active view
// PUT /api/v1/shell/tab
func (h *ShellHandler) SelectTab(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}

	var req SelectTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	updated, err := h.tabs.SelectTab(c.Request.Context(), session.ID, req.Tab)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, usecases.BuildShellView(updated))
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/interfaces/http/response"
	"nft-storefront.backend/internal/usecases"
)

type mintService interface {
	Mint(ctx context.Context, sessionID string) (*usecases.MintResult, error)
}

// MintHandler handles minting
type MintHandler struct {
	mint mintService
}

func NewMintHandler(mint mintService) *MintHandler {
	return &MintHandler{mint: mint}
}

// Mint mints one token to the connected account
// POST /api/v1/mint
func (h *MintHandler) Mint(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}

	result, err := h.mint.Mint(c.Request.Context(), session.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

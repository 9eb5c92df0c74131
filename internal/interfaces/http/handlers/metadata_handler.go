package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/response"
)

type metadataResolver interface {
	Resolve(ctx context.Context, tokenID, uri string) entities.Metadata
}

// MetadataHandler resolves token URIs through the gateway
type MetadataHandler struct {
	resolver metadataResolver
}

func NewMetadataHandler(resolver metadataResolver) *MetadataHandler {
	return &MetadataHandler{resolver: resolver}
}

// Resolve returns the display record of a token URI. Unreachable documents
// resolve to a placeholder, never an error.
// GET /api/v1/metadata?uri=&tokenId=
func (h *MetadataHandler) Resolve(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		response.Error(c, domainerrors.BadRequest("uri is required"))
		return
	}
	response.Success(c, http.StatusOK, h.resolver.Resolve(c.Request.Context(), c.Query("tokenId"), uri))
}

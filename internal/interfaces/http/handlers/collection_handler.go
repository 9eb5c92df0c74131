package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/interfaces/http/response"
)

type collectionService interface {
	ListOwned(ctx context.Context, account, search string) (entities.ScanResult[entities.Token], error)
}

// CollectionHandler lists owned tokens
type CollectionHandler struct {
	collection collectionService
}

func NewCollectionHandler(collection collectionService) *CollectionHandler {
	return &CollectionHandler{collection: collection}
}

// MyCollection lists the tokens of the connected account
// GET /api/v1/collection?search=
func (h *CollectionHandler) MyCollection(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok || !session.Connected {
		response.Error(c, domainerrors.NotConnected())
		return
	}
	h.list(c, session.Address)
}

// ByAddress lists the tokens of any account
// GET /api/v1/collection/:address?search=
func (h *CollectionHandler) ByAddress(c *gin.Context) {
	h.list(c, c.Param("address"))
}

func (h *CollectionHandler) list(c *gin.Context, account string) {
	result, err := h.collection.ListOwned(c.Request.Context(), account, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

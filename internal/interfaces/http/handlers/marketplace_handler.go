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

type marketplaceService interface {
	ListListings(ctx context.Context, query usecases.ListingQuery) entities.ScanResult[entities.Listing]
	Buy(ctx context.Context, sessionID string, in usecases.BuyInput) (*usecases.PurchaseResult, error)
}

// MarketplaceHandler handles marketplace endpoints
type MarketplaceHandler struct {
	marketplace marketplaceService
}

func NewMarketplaceHandler(marketplace marketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: marketplace}
}

// BuyRequest carries the listing and the price shown to the buyer. Search and
// sort shape the marketplace returned after a confirmed purchase.
type BuyRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Price     string `json:"price" binding:"required"`
	Search    string `json:"search"`
	Sort      string `json:"sort"`
}

// ListListings scans the active listings
// GET /api/v1/marketplace/listings?search=&sort=
func (h *MarketplaceHandler) ListListings(c *gin.Context) {
	result := h.marketplace.ListListings(c.Request.Context(), usecases.ListingQuery{
		Search: c.Query("search"),
		Sort:   usecases.ListingSort(c.Query("sort")),
	})
	response.Success(c, http.StatusOK, result)
}

// Buy purchases a listing with the connected account
// POST /api/v1/marketplace/buy
func (h *MarketplaceHandler) Buy(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.marketplace.Buy(c.Request.Context(), session.ID, usecases.BuyInput{
		ListingID: req.ListingID,
		Price:     req.Price,
		Query: usecases.ListingQuery{
			Search: req.Search,
			Sort:   usecases.ListingSort(req.Sort),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

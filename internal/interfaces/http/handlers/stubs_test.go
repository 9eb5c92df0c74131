package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/usecases"
	"nft-storefront.backend/pkg/jwt"
	"nft-storefront.backend/pkg/utils"
)

const testAddress = "0x00000000000000000000000000000000000000Aa"

type sessionServiceStub struct {
	createFn     func(context.Context) (*entities.WalletSession, error)
	connectFn    func(context.Context, string) (*entities.WalletSession, error)
	disconnectFn func(context.Context, string) (*entities.WalletSession, error)
	selectTabFn  func(context.Context, string, entities.Tab) (*entities.WalletSession, error)
}

func (s sessionServiceStub) Create(ctx context.Context) (*entities.WalletSession, error) {
	return s.createFn(ctx)
}

func (s sessionServiceStub) Connect(ctx context.Context, id string) (*entities.WalletSession, error) {
	return s.connectFn(ctx, id)
}

func (s sessionServiceStub) Disconnect(ctx context.Context, id string) (*entities.WalletSession, error) {
	return s.disconnectFn(ctx, id)
}

func (s sessionServiceStub) SelectTab(ctx context.Context, id string, tab entities.Tab) (*entities.WalletSession, error) {
	return s.selectTabFn(ctx, id, tab)
}

type tokenIssuerStub struct {
	token *jwt.SessionToken
	err   error
}

func (s tokenIssuerStub) GenerateSessionToken(string) (*jwt.SessionToken, error) {
	return s.token, s.err
}

type shellServiceStub struct {
	viewFn func(context.Context, string) (*entities.ShellView, error)
}

func (s shellServiceStub) View(ctx context.Context, id string) (*entities.ShellView, error) {
	return s.viewFn(ctx, id)
}

type marketplaceServiceStub struct {
	listFn func(context.Context, usecases.ListingQuery) entities.ScanResult[entities.Listing]
	buyFn  func(context.Context, string, usecases.BuyInput) (*usecases.PurchaseResult, error)
}

func (s marketplaceServiceStub) ListListings(ctx context.Context, q usecases.ListingQuery) entities.ScanResult[entities.Listing] {
	return s.listFn(ctx, q)
}

func (s marketplaceServiceStub) Buy(ctx context.Context, id string, in usecases.BuyInput) (*usecases.PurchaseResult, error) {
	return s.buyFn(ctx, id, in)
}

type collectionServiceStub struct {
	listFn func(context.Context, string, string) (entities.ScanResult[entities.Token], error)
}

func (s collectionServiceStub) ListOwned(ctx context.Context, account, search string) (entities.ScanResult[entities.Token], error) {
	return s.listFn(ctx, account, search)
}

type mintServiceStub struct {
	mintFn func(context.Context, string) (*usecases.MintResult, error)
}

func (s mintServiceStub) Mint(ctx context.Context, id string) (*usecases.MintResult, error) {
	return s.mintFn(ctx, id)
}

type resolverStub struct {
	gotTokenID, gotURI string
}

func (s *resolverStub) Resolve(_ context.Context, tokenID, uri string) entities.Metadata {
	s.gotTokenID, s.gotURI = tokenID, uri
	return entities.Metadata{Name: "NFT #" + tokenID, Source: entities.MetadataSourcePlaceholder}
}

type activityServiceStub struct {
	listFn func(context.Context, string, utils.PaginationParams) ([]*entities.Activity, *utils.PaginationMeta, error)
}

func (s activityServiceStub) List(ctx context.Context, id string, p utils.PaginationParams) ([]*entities.Activity, *utils.PaginationMeta, error) {
	return s.listFn(ctx, id, p)
}

// withSession mounts h behind a middleware that injects session, standing in
// for the session middleware. A nil session leaves the context empty.
func withSession(method, path string, session *entities.WalletSession, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if session != nil {
			c.Set(middleware.SessionKey, session)
		}
		h(c)
	})
	return r
}

func connectedSession() *entities.WalletSession {
	return &entities.WalletSession{
		ID:        "sid-1",
		Address:   testAddress,
		Connected: true,
		State:     entities.SessionStateConnected,
		ActiveTab: entities.TabMarketplace,
	}
}

func disconnectedSession() *entities.WalletSession {
	return &entities.WalletSession{ID: "sid-1", State: entities.SessionStateDisconnected, ActiveTab: entities.TabMarketplace}
}

func serve(r *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

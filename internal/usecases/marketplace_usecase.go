package usecases

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/domain/repositories"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/internal/infrastructure/metrics"
	"nft-storefront.backend/pkg/logger"
)

const (
	scannerMarketplace = "marketplace"
	msgPurchaseFailed  = "purchase failed"
)

// ListingSort orders marketplace listings
type ListingSort string

const (
	SortPriceLow  ListingSort = "price-low"
	SortPriceHigh ListingSort = "price-high"
	SortNewest    ListingSort = "newest"
)

// ListingQuery filters and orders a marketplace scan
type ListingQuery struct {
	Search string
	Sort   ListingSort
}

// BuyInput identifies the listing being bought and the price shown to the buyer.
type BuyInput struct {
	ListingID string
	Price     string
	Query     ListingQuery
}

// PurchaseResult is a confirmed purchase with the refreshed marketplace.
type PurchaseResult struct {
	TxHash   string                                `json:"txHash"`
	Listings entities.ScanResult[entities.Listing] `json:"listings"`
}

// MarketplaceUsecase scans active listings and runs purchases.
type MarketplaceUsecase struct {
	market     Marketplace
	tokens     TokenReader
	nftAddress common.Address
	resolver   MetadataResolver
	sessions   repositories.SessionRepository
	provider   blockchain.WalletProvider
	recorder   *activityRecorder
	cfg        ScanConfig
	tx         TxConfig
	metrics    *metrics.Metrics
}

// MarketplaceDeps wires a MarketplaceUsecase. Market may be nil when no
// marketplace is deployed; Provider may be nil when no wallet is available.
type MarketplaceDeps struct {
	Market     Marketplace
	Tokens     TokenReader
	NFTAddress common.Address
	Resolver   MetadataResolver
	Sessions   repositories.SessionRepository
	Provider   blockchain.WalletProvider
	Activities repositories.ActivityRepository
	Scan       ScanConfig
	Tx         TxConfig
	Metrics    *metrics.Metrics
}

func NewMarketplaceUsecase(d MarketplaceDeps) *MarketplaceUsecase {
	return &MarketplaceUsecase{
		market:     d.Market,
		tokens:     d.Tokens,
		nftAddress: d.NFTAddress,
		resolver:   d.Resolver,
		sessions:   d.Sessions,
		provider:   d.Provider,
		recorder:   &activityRecorder{repo: d.Activities, metrics: d.Metrics, now: time.Now},
		cfg:        d.Scan,
		tx:         d.Tx,
		metrics:    d.Metrics,
	}
}

// pricedListing keeps the numeric fields next to the rendered listing for sorting.
type pricedListing struct {
	id    *big.Int
	price *big.Int
	item  entities.Listing
}

// ListListings reads the active listings for ids 1..bound in a single
// contract call. Read failures degrade to a typed empty result.
func (u *MarketplaceUsecase) ListListings(ctx context.Context, query ListingQuery) entities.ScanResult[entities.Listing] {
	start := time.Now()
	result := u.scan(ctx, query)
	u.metrics.ObserveScan(scannerMarketplace, string(result.Status), string(result.FailureKind), len(result.Items), time.Since(start))
	return result
}

func (u *MarketplaceUsecase) scan(ctx context.Context, query ListingQuery) entities.ScanResult[entities.Listing] {
	if u.market == nil {
		return entities.NewScanResult[entities.Listing](nil)
	}

	raw, err := u.market.GetAllListings(ctx, u.nftAddress, tokenIDRange(u.cfg.MarketBound))
	if err != nil {
		if ctx.Err() != nil {
			return entities.FailedScan[entities.Listing](entities.FailureCanceled)
		}
		logger.Warn(ctx, "Marketplace scan failed", zap.Error(err))
		return entities.FailedScan[entities.Listing](entities.FailureContractCall)
	}

	search := strings.TrimSpace(query.Search)
	active := make([]pricedListing, 0, len(raw))
	for _, l := range raw {
		if l.Seller == (common.Address{}) || l.TokenID == nil {
			continue
		}
		if search != "" && !strings.Contains(l.TokenID.String(), search) {
			continue
		}
		id := l.ID
		if id == nil {
			id = new(big.Int)
		}
		price := l.Price
		if price == nil {
			price = new(big.Int)
		}
		active = append(active, pricedListing{
			id:    id,
			price: price,
			item: entities.Listing{
				ID:          id.String(),
				Seller:      l.Seller.Hex(),
				TokenID:     l.TokenID.String(),
				Price:       formatEther(price),
				PriceWei:    price.String(),
				NFTContract: l.NFTContract.Hex(),
			},
		})
	}

	u.attachMetadata(ctx, active)
	if ctx.Err() != nil {
		return entities.FailedScan[entities.Listing](entities.FailureCanceled)
	}

	sortListings(active, query.Sort)
	items := make([]entities.Listing, len(active))
	for i := range active {
		items[i] = active[i].item
	}
	return entities.NewScanResult(items)
}

// attachMetadata resolves tokenURI and metadata per listing concurrently.
// A tokenURI failure degrades to an empty URI and placeholder metadata.
func (u *MarketplaceUsecase) attachMetadata(ctx context.Context, listings []pricedListing) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.concurrency())
	for i := range listings {
		g.Go(func() error {
			item := &listings[i].item
			uri := ""
			if u.tokens != nil {
				tokenID, _ := new(big.Int).SetString(item.TokenID, 10)
				var err error
				uri, err = u.tokens.TokenURI(gctx, tokenID)
				if err != nil {
					logger.Warn(gctx, "tokenURI lookup failed", zap.String("token_id", item.TokenID), zap.Error(err))
					uri = ""
				}
			}
			item.TokenURI = uri
			item.Metadata = u.resolver.Resolve(gctx, item.TokenID, uri)
			return nil
		})
	}
	_ = g.Wait()
}

// sortListings is stable; an unknown key keeps contract order.
func sortListings(listings []pricedListing, by ListingSort) {
	switch by {
	case "", SortPriceLow:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].price.Cmp(listings[j].price) < 0
		})
	case SortPriceHigh:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].price.Cmp(listings[j].price) > 0
		})
	case SortNewest:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].id.Cmp(listings[j].id) > 0
		})
	}
}

// Buy purchases a listing for the session's account, paying exactly the
// listed price. Every failure surfaces as the generic purchase failure;
// success re-scans the marketplace.
func (u *MarketplaceUsecase) Buy(ctx context.Context, sessionID string, in BuyInput) (*PurchaseResult, error) {
	session, err := requireConnected(ctx, u.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	listingID, ok := new(big.Int).SetString(strings.TrimSpace(in.ListingID), 10)
	if !ok || listingID.Sign() < 0 {
		return nil, domainerrors.BadRequest("invalid listing id")
	}
	value, err := parseEther(in.Price)
	if err != nil {
		return nil, err
	}
	if u.provider == nil {
		return nil, domainerrors.ProviderMissing()
	}
	if u.market == nil {
		return nil, domainerrors.TransactionFailed(msgPurchaseFailed, domainerrors.ErrContractCall)
	}

	activity := &entities.Activity{
		SessionID: session.ID,
		Kind:      entities.ActivityKindPurchase,
		Account:   session.Address,
		ListingID: null.StringFrom(listingID.String()),
		Value:     null.StringFrom(value.String()),
	}
	u.recorder.start(ctx, activity)

	hash, err := u.submitPurchase(ctx, session.Address, listingID, value, activity)
	if err != nil {
		u.recorder.fail(ctx, activity, failureReason(ctx, "Purchase", err))
		return nil, domainerrors.TransactionFailed(msgPurchaseFailed, err)
	}
	u.recorder.confirm(ctx, activity)
	logger.Info(ctx, "Purchase confirmed",
		zap.String("listing_id", listingID.String()),
		zap.String("tx_hash", hash.Hex()),
	)

	return &PurchaseResult{
		TxHash:   hash.Hex(),
		Listings: u.ListListings(ctx, in.Query),
	}, nil
}

func (u *MarketplaceUsecase) submitPurchase(ctx context.Context, account string, listingID, value *big.Int, activity *entities.Activity) (common.Hash, error) {
	writer, err := signerFor(ctx, u.provider, account)
	if err != nil {
		return common.Hash{}, err
	}
	hash, err := u.market.BuyNFT(ctx, writer, listingID, value)
	if err != nil {
		return common.Hash{}, err
	}
	activity.TxHash = null.StringFrom(hash.Hex())
	u.recorder.submitted(ctx, activity)
	if _, err := awaitReceipt(ctx, writer, hash, u.tx.ReceiptTimeout); err != nil {
		return hash, err
	}
	return hash, nil
}

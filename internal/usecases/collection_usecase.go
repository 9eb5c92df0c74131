package usecases

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/infrastructure/metrics"
	"nft-storefront.backend/pkg/logger"
)

const scannerCollection = "collection"

// CollectionUsecase lists the tokens an account owns by probing a bounded
// id range.
type CollectionUsecase struct {
	tokens   TokenReader
	resolver MetadataResolver
	cfg      ScanConfig
	metrics  *metrics.Metrics
}

// NewCollectionUsecase creates a collection scanner. tokens may be nil when
// no token contract is configured.
func NewCollectionUsecase(tokens TokenReader, resolver MetadataResolver, cfg ScanConfig, m *metrics.Metrics) *CollectionUsecase {
	return &CollectionUsecase{tokens: tokens, resolver: resolver, cfg: cfg, metrics: m}
}

// ListOwned returns the tokens in 1..bound owned by account, ascending by
// id. A failed ownerOf probe counts as not owned. search, when set, keeps
// only ids whose decimal form contains it.
func (u *CollectionUsecase) ListOwned(ctx context.Context, account, search string) (entities.ScanResult[entities.Token], error) {
	if !common.IsHexAddress(account) {
		return entities.ScanResult[entities.Token]{}, domainerrors.BadRequest("invalid account address")
	}
	start := time.Now()
	result := u.scan(ctx, account, strings.TrimSpace(search))
	u.metrics.ObserveScan(scannerCollection, string(result.Status), string(result.FailureKind), len(result.Items), time.Since(start))
	return result, nil
}

func (u *CollectionUsecase) scan(ctx context.Context, account, search string) entities.ScanResult[entities.Token] {
	if u.tokens == nil {
		return entities.FailedScan[entities.Token](entities.FailureNotConfigured)
	}

	var ids []*big.Int
	for _, id := range tokenIDRange(u.cfg.CollectionBound) {
		if search == "" || strings.Contains(id.String(), search) {
			ids = append(ids, id)
		}
	}

	// one slot per probed id keeps the output ordered without locking
	found := make([]*entities.Token, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.concurrency())
	for i, id := range ids {
		g.Go(func() error {
			owner, err := u.tokens.OwnerOf(gctx, id)
			if err != nil {
				logger.Debug(gctx, "ownerOf probe failed", zap.String("token_id", id.String()), zap.Error(err))
				return nil
			}
			if !strings.EqualFold(owner.Hex(), account) {
				return nil
			}

			tokenID := id.String()
			uri, err := u.tokens.TokenURI(gctx, id)
			if err != nil {
				logger.Warn(gctx, "tokenURI lookup failed", zap.String("token_id", tokenID), zap.Error(err))
				uri = ""
			}
			found[i] = &entities.Token{
				TokenID:  tokenID,
				Owner:    owner.Hex(),
				TokenURI: uri,
				Metadata: u.resolver.Resolve(gctx, tokenID, uri),
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return entities.FailedScan[entities.Token](entities.FailureCanceled)
	}

	items := make([]entities.Token, 0, len(found))
	for _, token := range found {
		if token != nil {
			items = append(items, *token)
		}
	}
	return entities.NewScanResult(items)
}

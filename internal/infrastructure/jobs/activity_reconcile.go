package jobs

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/pkg/logger"
)

const reconcileBatchSize = 100

type activityStore interface {
	ListStale(ctx context.Context, before time.Time, limit int) ([]*entities.Activity, error)
	Update(ctx context.Context, activity *entities.Activity) error
}

// ReceiptSource looks up a mined transaction by hash
type ReceiptSource interface {
	GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error)
}

// MintedTokenExtractor reads the minted token id from a mint receipt
type MintedTokenExtractor interface {
	MintedTokenID(receipt *types.Receipt) (*big.Int, bool)
}

// ActivityReconcileJob settles activities left in the submitted state when a
// request died while waiting for its receipt.
type ActivityReconcileJob struct {
	repo     activityStore
	receipts ReceiptSource
	minted   MintedTokenExtractor
	interval time.Duration
	// staleAfter must exceed the receipt wait of the write flows
	staleAfter time.Duration
	// abandonAfter is how long an unmined hash is kept before giving up
	abandonAfter time.Duration
	now          func() time.Time
	stop         chan struct{}
}

func NewActivityReconcileJob(repo activityStore, receipts ReceiptSource, minted MintedTokenExtractor, staleAfter time.Duration) *ActivityReconcileJob {
	return &ActivityReconcileJob{
		repo:         repo,
		receipts:     receipts,
		minted:       minted,
		interval:     30 * time.Second,
		staleAfter:   staleAfter,
		abandonAfter: 24 * time.Hour,
		now:          time.Now,
		stop:         make(chan struct{}),
	}
}

func (j *ActivityReconcileJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting activity reconcile job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Activity reconcile job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Activity reconcile job stopped")
			return
		case <-ticker.C:
			j.reconcile(ctx)
		}
	}
}

func (j *ActivityReconcileJob) Stop() {
	close(j.stop)
}

func (j *ActivityReconcileJob) reconcile(ctx context.Context) {
	stale, err := j.repo.ListStale(ctx, j.now().Add(-j.staleAfter), reconcileBatchSize)
	if err != nil {
		logger.Error(ctx, "Failed to fetch stale activities", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	settled := 0
	for _, activity := range stale {
		if j.settle(ctx, activity) {
			settled++
		}
	}
	logger.Info(ctx, "Reconciled stale activities", zap.Int("fetched", len(stale)), zap.Int("settled", settled))
}

// settle resolves one activity and reports whether it was written back.
func (j *ActivityReconcileJob) settle(ctx context.Context, activity *entities.Activity) bool {
	if !activity.TxHash.Valid || activity.TxHash.String == "" {
		return j.save(ctx, activity, entities.ActivityStatusFailed, "abandoned before submission")
	}

	receipt, err := j.receipts.GetTransactionReceipt(ctx, activity.TxHash.String)
	switch {
	case errors.Is(err, ethereum.NotFound):
		if j.now().Sub(activity.CreatedAt) < j.abandonAfter {
			return false
		}
		return j.save(ctx, activity, entities.ActivityStatusFailed, "transaction never mined")
	case err != nil:
		logger.Warn(ctx, "Failed to fetch receipt",
			zap.String("activity_id", activity.ID.String()),
			zap.String("tx_hash", activity.TxHash.String),
			zap.Error(err),
		)
		return false
	case receipt.Status != types.ReceiptStatusSuccessful:
		return j.save(ctx, activity, entities.ActivityStatusFailed, "transaction reverted")
	}

	if activity.Kind == entities.ActivityKindMint && j.minted != nil {
		if id, ok := j.minted.MintedTokenID(receipt); ok {
			activity.TokenID = null.StringFrom(id.String())
		}
	}
	return j.save(ctx, activity, entities.ActivityStatusConfirmed, "")
}

func (j *ActivityReconcileJob) save(ctx context.Context, activity *entities.Activity, status entities.ActivityStatus, reason string) bool {
	activity.Status = status
	activity.Error = null.NewString(reason, reason != "")
	activity.UpdatedAt = j.now()
	if err := j.repo.Update(ctx, activity); err != nil {
		logger.Error(ctx, "Failed to update activity",
			zap.String("activity_id", activity.ID.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return false
	}
	return true
}

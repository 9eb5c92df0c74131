package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/domain/repositories"
	"nft-storefront.backend/internal/infrastructure/metrics"
	"nft-storefront.backend/pkg/logger"
	"nft-storefront.backend/pkg/utils"
)

// ActivityUsecase reads the per-session log of write attempts
type ActivityUsecase struct {
	activities repositories.ActivityRepository
}

func NewActivityUsecase(activities repositories.ActivityRepository) *ActivityUsecase {
	return &ActivityUsecase{activities: activities}
}

// List returns a page of the session's activity, newest first
func (u *ActivityUsecase) List(ctx context.Context, sessionID string, pagination utils.PaginationParams) ([]*entities.Activity, *utils.PaginationMeta, error) {
	pagination = utils.GetPaginationParams(pagination.Page, pagination.Limit)
	items, total, err := u.activities.ListBySession(ctx, sessionID, pagination)
	if err != nil {
		return nil, nil, err
	}
	meta := utils.CalculateMeta(total, pagination.Page, pagination.Limit)
	return items, &meta, nil
}

// activityRecorder writes the activity trail of a write flow. Recording
// failures are logged and never fail the flow itself. Writes run detached
// from the request's cancellation so a dropped client cannot lose them.
type activityRecorder struct {
	repo    repositories.ActivityRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func (r *activityRecorder) start(ctx context.Context, activity *entities.Activity) {
	activity.Status = entities.ActivityStatusSubmitted
	activity.CreatedAt = r.now()
	activity.UpdatedAt = activity.CreatedAt
	if r.repo == nil {
		return
	}
	activity.ID = utils.GenerateUUIDv7()
	if err := r.repo.Create(context.WithoutCancel(ctx), activity); err != nil {
		logger.Warn(ctx, "Failed to record activity", zap.String("kind", string(activity.Kind)), zap.Error(err))
		// nothing to update later
		activity.ID = uuid.Nil
	}
}

// submitted persists the tx hash before the receipt wait starts.
func (r *activityRecorder) submitted(ctx context.Context, activity *entities.Activity) {
	activity.UpdatedAt = r.now()
	r.update(ctx, activity)
}

func (r *activityRecorder) confirm(ctx context.Context, activity *entities.Activity) {
	activity.Status = entities.ActivityStatusConfirmed
	activity.Error = null.String{}
	r.finish(ctx, activity)
}

func (r *activityRecorder) fail(ctx context.Context, activity *entities.Activity, reason string) {
	if ctx.Err() != nil && activity.TxHash.Valid {
		// the transaction may still be mined; the reconciler settles it
		logger.Warn(ctx, "Request ended before receipt, activity left submitted",
			zap.String("tx_hash", activity.TxHash.String),
			zap.Error(ctx.Err()),
		)
		return
	}
	activity.Status = entities.ActivityStatusFailed
	activity.Error = null.StringFrom(reason)
	r.finish(ctx, activity)
}

func (r *activityRecorder) finish(ctx context.Context, activity *entities.Activity) {
	activity.UpdatedAt = r.now()
	r.metrics.ObserveTransaction(string(activity.Kind), string(activity.Status))
	r.update(ctx, activity)
}

func (r *activityRecorder) update(ctx context.Context, activity *entities.Activity) {
	if r.repo == nil || activity.ID == uuid.Nil {
		return
	}
	if err := r.repo.Update(context.WithoutCancel(ctx), activity); err != nil {
		logger.Warn(ctx, "Failed to update activity",
			zap.String("activity_id", activity.ID.String()),
			zap.String("status", string(activity.Status)),
			zap.Error(err),
		)
	}
}

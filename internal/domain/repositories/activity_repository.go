package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/pkg/utils"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entities.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error)
	Update(ctx context.Context, activity *entities.Activity) error
	ListBySession(ctx context.Context, sessionID string, pagination utils.PaginationParams) ([]*entities.Activity, int64, error)
	// ListStale returns submitted activities not touched since before, oldest first.
	ListStale(ctx context.Context, before time.Time, limit int) ([]*entities.Activity, error)
}

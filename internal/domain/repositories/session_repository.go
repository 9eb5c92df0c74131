package repositories

import (
	"context"
	"time"

	"nft-storefront.backend/internal/domain/entities"
)

// SessionRepository stores wallet sessions until they expire
type SessionRepository interface {
	Save(ctx context.Context, session *entities.WalletSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entities.WalletSession, error)
	Delete(ctx context.Context, id string) error
}

package repositories

import (
	"context"
	"errors"
	"time"

	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/pkg/redis"
)

// sessionStore is the encrypted key-value store sessions live in
type sessionStore interface {
	Save(ctx context.Context, sessionID string, data interface{}, expiration time.Duration) error
	Load(ctx context.Context, sessionID string, dst interface{}) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionRepository keeps wallet sessions in Redis
type SessionRepository struct {
	store sessionStore
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store sessionStore) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Save(ctx context.Context, session *entities.WalletSession, ttl time.Duration) error {
	return r.store.Save(ctx, session.ID, session, ttl)
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*entities.WalletSession, error) {
	var session entities.WalletSession
	if err := r.store.Load(ctx, id, &session); err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

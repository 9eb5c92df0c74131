package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/infrastructure/models"
	"nft-storefront.backend/pkg/utils"
)

// ActivityRepository implements activity log data operations
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts a new activity, assigning an id when missing
func (r *ActivityRepository) Create(ctx context.Context, activity *entities.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = utils.GenerateUUIDv7()
	}
	m := toActivityModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	activity.CreatedAt = m.CreatedAt
	activity.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error) {
	var m models.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toActivityEntity(&m), nil
}

// Update persists status, tx hash, token id and error of an activity
func (r *ActivityRepository) Update(ctx context.Context, activity *entities.Activity) error {
	m := toActivityModel(activity)
	result := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ?", activity.ID).
		Updates(map[string]interface{}{
			"status":     m.Status,
			"tx_hash":    m.TxHash,
			"token_id":   m.TokenID,
			"error":      m.Error,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListBySession returns a session's activities, newest first
func (r *ActivityRepository) ListBySession(ctx context.Context, sessionID string, pagination utils.PaginationParams) ([]*entities.Activity, int64, error) {
	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Activity{}).Where("session_id = ?", sessionID)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Activity
	find := scoped().Order("created_at DESC").Order("id DESC")
	if pagination.Limit > 0 {
		find = find.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}
	if err := find.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]*entities.Activity, 0, len(ms))
	for i := range ms {
		activities = append(activities, toActivityEntity(&ms[i]))
	}
	return activities, total, nil
}

// ListStale returns submitted activities last updated before the cutoff
func (r *ActivityRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]*entities.Activity, error) {
	var ms []models.Activity
	q := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", string(entities.ActivityStatusSubmitted), before).
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	activities := make([]*entities.Activity, 0, len(ms))
	for i := range ms {
		activities = append(activities, toActivityEntity(&ms[i]))
	}
	return activities, nil
}

func toActivityModel(a *entities.Activity) *models.Activity {
	return &models.Activity{
		ID:        a.ID,
		SessionID: a.SessionID,
		Kind:      string(a.Kind),
		Account:   a.Account,
		ListingID: a.ListingID.Ptr(),
		TokenID:   a.TokenID.Ptr(),
		Value:     a.Value.Ptr(),
		TxHash:    a.TxHash.Ptr(),
		Status:    string(a.Status),
		Error:     a.Error.Ptr(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toActivityEntity(m *models.Activity) *entities.Activity {
	return &entities.Activity{
		ID:        m.ID,
		SessionID: m.SessionID,
		Kind:      entities.ActivityKind(m.Kind),
		Account:   m.Account,
		ListingID: null.StringFromPtr(m.ListingID),
		TokenID:   null.StringFromPtr(m.TokenID),
		Value:     null.StringFromPtr(m.Value),
		TxHash:    null.StringFromPtr(m.TxHash),
		Status:    entities.ActivityStatus(m.Status),
		Error:     null.StringFromPtr(m.Error),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

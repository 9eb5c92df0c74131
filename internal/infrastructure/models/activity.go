package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a mint or purchase attempt recorded for a wallet session
type Activity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID string    `gorm:"type:varchar(64);not null;index"`
	Kind      string    `gorm:"type:varchar(20);not null"`
	Account   string    `gorm:"type:varchar(42);not null;index"`
	ListingID *string   `gorm:"type:varchar(78)"`
	TokenID   *string   `gorm:"type:varchar(78)"`
	Value     *string   `gorm:"type:varchar(78)"` // wei
	TxHash    *string   `gorm:"type:varchar(66);index"`
	Status    string    `gorm:"type:varchar(20);not null"`
	Error     *string   `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Activity) TableName() string {
	return "wallet_activities"
}

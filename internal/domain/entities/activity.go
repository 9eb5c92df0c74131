package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ActivityKind is the type of write flow recorded
type ActivityKind string

const (
	ActivityKindMint     ActivityKind = "mint"
	ActivityKindPurchase ActivityKind = "purchase"
)

// ActivityStatus tracks a submitted transaction
type ActivityStatus string

const (
	ActivityStatusSubmitted ActivityStatus = "submitted"
	ActivityStatusConfirmed ActivityStatus = "confirmed"
	ActivityStatusFailed    ActivityStatus = "failed"
)

// Activity is one mint or purchase attempt made through a session
type Activity struct {
	ID        uuid.UUID      `json:"id"`
	SessionID string         `json:"sessionId"`
	Kind      ActivityKind   `json:"kind"`
	Account   string         `json:"account"`
	ListingID null.String    `json:"listingId"`
	TokenID   null.String    `json:"tokenId"`
	Value     null.String    `json:"value"`
	TxHash    null.String    `json:"txHash"`
	Status    ActivityStatus `json:"status"`
	Error     null.String    `json:"error"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

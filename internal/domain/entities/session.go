package entities

import (
	"time"
)

// SessionState is the connection state of a wallet session
type SessionState string

const (
	SessionStateDisconnected SessionState = "disconnected"
	SessionStateConnecting   SessionState = "connecting"
	SessionStateConnected    SessionState = "connected"
)

// Tab is one of the mutually exclusive shell views
type Tab string

const (
	TabMarketplace  Tab = "marketplace"
	TabMyCollection Tab = "my-collection"
	TabMint         Tab = "mint"
)

// Tabs lists the shell views in display order.
var Tabs = []Tab{TabMarketplace, TabMyCollection, TabMint}

// IsValid reports whether t names a known tab
func (t Tab) IsValid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// WalletSession is one client's handle to a wallet account
type WalletSession struct {
	ID        string       `json:"id"`
	Address   string       `json:"address,omitempty"`
	Connected bool         `json:"connected"`
	State     SessionState `json:"state"`
	ChainID   int64        `json:"chainId,omitempty"`
	LastError string       `json:"lastError,omitempty"`
	ActiveTab Tab          `json:"activeTab"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewWalletSession returns a disconnected session on the default tab
func NewWalletSession(id string, now time.Time) *WalletSession {
	return &WalletSession{
		ID:        id,
		State:     SessionStateDisconnected,
		ActiveTab: TabMarketplace,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkConnected records a successful connection to address
func (s *WalletSession) MarkConnected(address string, now time.Time) {
	s.Address = address
	s.Connected = true
	s.State = SessionStateConnected
	s.LastError = ""
	s.UpdatedAt = now
}

// MarkFailed returns a connecting session to disconnected, keeping the reason
func (s *WalletSession) MarkFailed(reason string, now time.Time) {
	s.Address = ""
	s.Connected = false
	s.State = SessionStateDisconnected
	s.LastError = reason
	s.UpdatedAt = now
}

// MarkDisconnected clears the account and any pending error
func (s *WalletSession) MarkDisconnected(now time.Time) {
	s.Address = ""
	s.Connected = false
	s.State = SessionStateDisconnected
	s.LastError = ""
	s.ChainID = 0
	s.UpdatedAt = now
}

// ShellView is what the presentation shell renders for a session
type ShellView struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
	ActiveTab Tab    `json:"activeTab"`
	Tabs      []Tab  `json:"tabs"`
	Landing   string `json:"landing,omitempty"`
	LastError string `json:"lastError,omitempty"`
}

// LandingNoWallet gates every tab behind a connect action.
const LandingNoWallet = "no-wallet"

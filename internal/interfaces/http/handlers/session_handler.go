package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/interfaces/http/response"
	"nft-storefront.backend/pkg/jwt"
)

type sessionService interface {
	Create(ctx context.Context) (*entities.WalletSession, error)
	Connect(ctx context.Context, id string) (*entities.WalletSession, error)
	Disconnect(ctx context.Context, id string) (*entities.WalletSession, error)
	SelectTab(ctx context.Context, id string, tab entities.Tab) (*entities.WalletSession, error)
}

type sessionTokenIssuer interface {
	GenerateSessionToken(sessionID string) (*jwt.SessionToken, error)
}

// SessionHandler handles wallet session endpoints
type SessionHandler struct {
	sessions sessionService
	tokens   sessionTokenIssuer
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions sessionService, tokens sessionTokenIssuer) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens}
}

// CreateSession starts a wallet session and hands back its bearer token
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.tokens.GenerateSessionToken(session.ID)
	if err != nil {
		response.Error(c, domainerrors.InternalError(err))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"session":   session,
		"token":     token.Token,
		"expiresAt": token.ExpiresAt,
	})
}

// GetSession returns the state of the calling session
// GET /api/v1/sessions/me
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Connect requests account access from the wallet provider
// POST /api/v1/sessions/connect
func (h *SessionHandler) Connect(c *gin.Context) {
	h.transition(c, h.sessions.Connect)
}

// Disconnect forgets the connected account
// POST /api/v1/sessions/disconnect
func (h *SessionHandler) Disconnect(c *gin.Context) {
	h.transition(c, h.sessions.Disconnect)
}

func (h *SessionHandler) transition(c *gin.Context, fn func(context.Context, string) (*entities.WalletSession, error)) {
	current, ok := middleware.GetSession(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Session required"))
		return
	}

	session, err := fn(c.Request.Context(), current.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/interfaces/http/response"
	"nft-storefront.backend/pkg/jwt"
	"nft-storefront.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionKey is the context key for the loaded wallet session
	SessionKey = "walletSession"
)

// TokenValidator checks a session token
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// SessionLoader fetches a session by id
type SessionLoader interface {
	Get(ctx context.Context, id string) (*entities.WalletSession, error)
}

// SessionMiddleware resolves the bearer token into a wallet session.
func SessionMiddleware(tokens TokenValidator, sessions SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(ctx, "Session token missing", zap.String("path", c.Request.URL.Path))
			abortWith(c, domainerrors.Unauthorized("Authorization header is required"))
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortWith(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(ctx, "Session token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortWith(c, domainerrors.Unauthorized("Token has expired"))
				return
			}
			abortWith(c, domainerrors.Unauthorized("Invalid token"))
			return
		}

		session, err := sessions.Get(ctx, claims.SessionID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				abortWith(c, domainerrors.Unauthorized("Session has expired"))
				return
			}
			abortWith(c, err)
			return
		}

		c.Set(SessionKey, session)
		c.Request = c.Request.WithContext(logger.WithSessionID(ctx, session.ID))
		c.Next()
	}
}

// RequireConnected gates routes that need an account; it must run after
// SessionMiddleware.
func RequireConnected() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok || !session.Connected {
			abortWith(c, domainerrors.NotConnected())
			return
		}
		c.Next()
	}
}

// GetSession gets the wallet session from context
func GetSession(c *gin.Context) (*entities.WalletSession, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*entities.WalletSession)
	return session, ok && session != nil
}

func abortWith(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}

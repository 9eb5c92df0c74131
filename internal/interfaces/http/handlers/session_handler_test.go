package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/pkg/jwt"
)

func TestSessionHandler_CreateSession(t *testing.T) {
	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewSessionHandler(sessionServiceStub{
		createFn: func(context.Context) (*entities.WalletSession, error) {
			return disconnectedSession(), nil
		},
	}, tokenIssuerStub{token: &jwt.SessionToken{Token: "tok", ExpiresAt: expires}})

	r := withSession(http.MethodPost, "/sessions", nil, h.CreateSession)
	w := serve(r, http.MethodPost, "/sessions", nil)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	require.Equal(t, "tok", body["token"])
	require.Equal(t, "sid-1", body["session"].(map[string]any)["id"])
	require.Equal(t, false, body["session"].(map[string]any)["connected"])
}

func TestSessionHandler_CreateSession_Errors(t *testing.T) {
	t.Run("store failure", func(t *testing.T) {
		h := NewSessionHandler(sessionServiceStub{
			createFn: func(context.Context) (*entities.WalletSession, error) { return nil, errors.New("redis down") },
		}, tokenIssuerStub{})
		w := serve(withSession(http.MethodPost, "/sessions", nil, h.CreateSession), http.MethodPost, "/sessions", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("token failure", func(t *testing.T) {
		h := NewSessionHandler(sessionServiceStub{
			createFn: func(context.Context) (*entities.WalletSession, error) { return disconnectedSession(), nil },
		}, tokenIssuerStub{err: errors.New("sign failed")})
		w := serve(withSession(http.MethodPost, "/sessions", nil, h.CreateSession), http.MethodPost, "/sessions", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, domainerrors.CodeInternalError, decode(t, w)["code"])
	})
}

func TestSessionHandler_GetSession(t *testing.T) {
	h := NewSessionHandler(sessionServiceStub{}, tokenIssuerStub{})

	w := serve(withSession(http.MethodGet, "/me", connectedSession(), h.GetSession), http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, testAddress, decode(t, w)["session"].(map[string]any)["address"])

	w = serve(withSession(http.MethodGet, "/me", nil, h.GetSession), http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionHandler_Connect(t *testing.T) {
	var gotID string
	h := NewSessionHandler(sessionServiceStub{
		connectFn: func(_ context.Context, id string) (*entities.WalletSession, error) {
			gotID = id
			return connectedSession(), nil
		},
	}, tokenIssuerStub{})

	w := serve(withSession(http.MethodPost, "/connect", disconnectedSession(), h.Connect), http.MethodPost, "/connect", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "sid-1", gotID)
	require.Equal(t, true, decode(t, w)["session"].(map[string]any)["connected"])
}

func TestSessionHandler_Connect_ErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"provider missing", domainerrors.ProviderMissing(), http.StatusServiceUnavailable, domainerrors.CodeProviderMissing},
		{"user rejected", domainerrors.UserRejected("connection request rejected"), http.StatusConflict, domainerrors.CodeUserRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSessionHandler(sessionServiceStub{
				connectFn: func(context.Context, string) (*entities.WalletSession, error) { return nil, tc.err },
			}, tokenIssuerStub{})

			w := serve(withSession(http.MethodPost, "/connect", disconnectedSession(), h.Connect), http.MethodPost, "/connect", nil)
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.code, decode(t, w)["code"])
		})
	}
}

func TestSessionHandler_Disconnect(t *testing.T) {
	h := NewSessionHandler(sessionServiceStub{
		disconnectFn: func(context.Context, string) (*entities.WalletSession, error) { return disconnectedSession(), nil },
	}, tokenIssuerStub{})

	w := serve(withSession(http.MethodPost, "/disconnect", connectedSession(), h.Disconnect), http.MethodPost, "/disconnect", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decode(t, w)["session"].(map[string]any)["connected"])

	w = serve(withSession(http.MethodPost, "/disconnect", nil, h.Disconnect), http.MethodPost, "/disconnect", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

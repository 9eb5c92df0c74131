package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
)

func TestShellHandler_GetShell(t *testing.T) {
	h := NewShellHandler(shellServiceStub{
		viewFn: func(_ context.Context, id string) (*entities.ShellView, error) {
			require.Equal(t, "sid-1", id)
			return &entities.ShellView{ActiveTab: entities.TabMarketplace, Tabs: entities.Tabs, Landing: entities.LandingNoWallet}, nil
		},
	}, sessionServiceStub{})

	w := serve(withSession(http.MethodGet, "/shell", disconnectedSession(), h.GetShell), http.MethodGet, "/shell", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "no-wallet", body["landing"])
	require.Len(t, body["tabs"], 3)

	w = serve(withSession(http.MethodGet, "/shell", nil, h.GetShell), http.MethodGet, "/shell", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShellHandler_SelectTab(t *testing.T) {
	h := NewShellHandler(shellServiceStub{}, sessionServiceStub{
		selectTabFn: func(_ context.Context, _ string, tab entities.Tab) (*entities.WalletSession, error) {
			if !tab.IsValid() {
				return nil, domainerrors.BadRequest("unknown tab")
			}
			s := connectedSession()
			s.ActiveTab = tab
			return s, nil
		},
	})
	r := withSession(http.MethodPut, "/shell/tab", connectedSession(), h.SelectTab)

	w := serve(r, http.MethodPut, "/shell/tab", map[string]string{"tab": "mint"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, "mint", body["activeTab"])
	require.Nil(t, body["landing"])

	w = serve(r, http.MethodPut, "/shell/tab", map[string]string{"tab": "settings"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/shell/tab", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

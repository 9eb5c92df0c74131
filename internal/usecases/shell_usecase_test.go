package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/usecases"
)

func TestShellUsecase_View(t *testing.T) {
	idle := entities.NewWalletSession("idle", time.Now())
	idle.LastError = "connection request rejected"
	live := connectedSession("live")
	live.ActiveTab = entities.TabMyCollection
	uc := usecases.NewShellUsecase(newMemorySessions(idle, live))

	view, err := uc.View(context.Background(), "idle")
	require.NoError(t, err)
	assert.False(t, view.Connected)
	assert.Equal(t, entities.LandingNoWallet, view.Landing)
	assert.Equal(t, entities.TabMarketplace, view.ActiveTab)
	assert.Equal(t, "connection request rejected", view.LastError)
	assert.Equal(t, entities.Tabs, view.Tabs)

	view, err = uc.View(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, view.Connected)
	assert.Empty(t, view.Landing)
	assert.Equal(t, testAccount, view.Address)
	assert.Equal(t, entities.TabMyCollection, view.ActiveTab)

	_, err = uc.View(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBuildShellView_UnknownTabFallsBack(t *testing.T) {
	session := entities.NewWalletSession("s", time.Now())
	session.ActiveTab = "legacy"

	view := usecases.BuildShellView(session)
	assert.Equal(t, entities.TabMarketplace, view.ActiveTab)
}

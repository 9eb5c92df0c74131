package usecases

import (
	"context"

	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/domain/repositories"
)

// ShellUsecase builds the presentation shell state of a session
type ShellUsecase struct {
	sessions repositories.SessionRepository
}

func NewShellUsecase(sessions repositories.SessionRepository) *ShellUsecase {
	return &ShellUsecase{sessions: sessions}
}

// View returns the shell for a session. Without a connected account every
// tab is gated behind the no-wallet landing.
func (u *ShellUsecase) View(ctx context.Context, id string) (*entities.ShellView, error) {
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildShellView(session), nil
}

// BuildShellView derives the shell from a loaded session.
func BuildShellView(session *entities.WalletSession) *entities.ShellView {
	tabs := make([]entities.Tab, len(entities.Tabs))
	copy(tabs, entities.Tabs)

	active := session.ActiveTab
	if !active.IsValid() {
		active = entities.TabMarketplace
	}
	view := &entities.ShellView{
		Connected: session.Connected,
		Address:   session.Address,
		ActiveTab: active,
		Tabs:      tabs,
		LastError: session.LastError,
	}
	if !session.Connected {
		view.Landing = entities.LandingNoWallet
	}
	return view
}

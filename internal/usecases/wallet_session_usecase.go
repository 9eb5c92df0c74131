package usecases

import (
	"context"
	"errors"
	"math/big"
	"time"

	"go.uber.org/zap"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/domain/repositories"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/pkg/logger"
	"nft-storefront.backend/pkg/utils"
)

const (
	msgConnectRejected = "connection request rejected"
	msgConnectFailed   = "failed to connect wallet"
	msgProviderMissing = "wallet provider is not installed"
)

// WalletSessionUsecase drives the connect/disconnect state machine of a
// wallet session.
type WalletSessionUsecase struct {
	sessions repositories.SessionRepository
	provider blockchain.WalletProvider
	network  entities.Network
	ttl      time.Duration
	now      func() time.Time
}

// NewWalletSessionUsecase creates a new wallet session usecase. provider may
// be nil when no wallet is available.
func NewWalletSessionUsecase(
	sessions repositories.SessionRepository,
	provider blockchain.WalletProvider,
	network entities.Network,
	ttl time.Duration,
) *WalletSessionUsecase {
	return &WalletSessionUsecase{
		sessions: sessions,
		provider: provider,
		network:  network,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a disconnected session and runs the one passive account check.
func (u *WalletSessionUsecase) Create(ctx context.Context) (*entities.WalletSession, error) {
	session := entities.NewWalletSession(utils.NewSessionID(), u.now())
	u.passiveCheck(ctx, session)
	if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

func (u *WalletSessionUsecase) Get(ctx context.Context, id string) (*entities.WalletSession, error) {
	return u.sessions.Get(ctx, id)
}

// CheckConnection adopts an already authorised account without prompting.
// Provider errors are logged and leave the session untouched.
func (u *WalletSessionUsecase) CheckConnection(ctx context.Context, id string) (*entities.WalletSession, error) {
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Connected {
		return session, nil
	}
	if !u.passiveCheck(ctx, session) {
		return session, nil
	}
	if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

func (u *WalletSessionUsecase) passiveCheck(ctx context.Context, session *entities.WalletSession) bool {
	if u.provider == nil {
		return false
	}
	accounts, err := u.provider.Accounts(ctx)
	if err != nil {
		logger.Warn(ctx, "Passive account check failed", zap.Error(err))
		return false
	}
	if len(accounts) == 0 {
		return false
	}
	session.MarkConnected(accounts[0], u.now())
	u.ensureNetwork(ctx, session)
	return true
}

// Connect requests account access from the provider.
func (u *WalletSessionUsecase) Connect(ctx context.Context, id string) (*entities.WalletSession, error) {
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.provider == nil {
		session.MarkFailed(msgProviderMissing, u.now())
		if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
			return nil, err
		}
		return nil, domainerrors.ProviderMissing()
	}

	session.State = entities.SessionStateConnecting
	session.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
		return nil, err
	}

	accounts, err := u.provider.RequestAccounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = errors.New("provider returned no accounts")
	}
	if err != nil {
		message := msgConnectFailed
		if code, ok := blockchain.ProviderErrorCode(err); ok && code == blockchain.ProviderCodeUserRejected {
			message = msgConnectRejected
		}
		logger.Warn(ctx, "Wallet connect failed", zap.Error(err))
		session.MarkFailed(message, u.now())
		if saveErr := u.sessions.Save(ctx, session, u.ttl); saveErr != nil {
			return nil, saveErr
		}
		return nil, domainerrors.UserRejected(message)
	}

	session.MarkConnected(accounts[0], u.now())
	u.ensureNetwork(ctx, session)
	if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Wallet connected", zap.String("account", session.Address), zap.Int64("chain_id", session.ChainID))
	return session, nil
}

// ensureNetwork asks the wallet to move to the expected chain, adding the
// chain when the wallet does not know it. Failures are logged only.
func (u *WalletSessionUsecase) ensureNetwork(ctx context.Context, session *entities.WalletSession) {
	chainID, err := u.provider.ChainID(ctx)
	if err != nil {
		logger.Warn(ctx, "Failed to read wallet chain id", zap.Error(err))
		return
	}
	if chainID.IsInt64() && u.network.Matches(chainID.Int64()) {
		session.ChainID = chainID.Int64()
		return
	}
	if chainID.IsInt64() {
		session.ChainID = chainID.Int64()
	}

	logger.Warn(ctx, domainerrors.ErrNetworkMismatch.Error(),
		zap.String("wallet_chain_id", chainID.String()),
		zap.Int64("expected_chain_id", u.network.ChainID),
	)

	expected := big.NewInt(u.network.ChainID)
	err = u.provider.SwitchChain(ctx, expected)
	if code, ok := blockchain.ProviderErrorCode(err); ok && code == blockchain.ProviderCodeUnknownChain {
		err = u.provider.AddChain(ctx, blockchain.AddChainParams{
			ChainID:          expected,
			ChainName:        u.network.Name,
			CurrencySymbol:   u.network.CurrencySymbol,
			RPCURL:           u.network.RPCURL,
			BlockExplorerURL: u.network.BlockExplorerURL,
		})
		if err != nil {
			logger.Warn(ctx, "Failed to add network to wallet", zap.Error(err))
			return
		}
	} else if err != nil {
		logger.Warn(ctx, "Failed to switch wallet network", zap.Error(err))
		return
	}
	session.ChainID = u.network.ChainID
}

func (u *WalletSessionUsecase) Disconnect(ctx context.Context, id string) (*entities.WalletSession, error) {
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.MarkDisconnected(u.now())
	if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectTab switches the active shell view; tabs are mutually exclusive.
func (u *WalletSessionUsecase) SelectTab(ctx context.Context, id string, tab entities.Tab) (*entities.WalletSession, error) {
	if !tab.IsValid() {
		return nil, domainerrors.BadRequest("unknown tab")
	}
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.ActiveTab = tab
	session.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, session, u.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

// RequireConnected loads a session and fails with NotConnected when it has
// no account.
func (u *WalletSessionUsecase) RequireConnected(ctx context.Context, id string) (*entities.WalletSession, error) {
	return requireConnected(ctx, u.sessions, id)
}

func requireConnected(ctx context.Context, sessions repositories.SessionRepository, id string) (*entities.WalletSession, error) {
	session, err := sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotConnected()
		}
		return nil, err
	}
	if !session.Connected || session.Address == "" {
		return nil, domainerrors.NotConnected()
	}
	return session, nil
}

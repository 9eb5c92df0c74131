package usecases

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/domain/repositories"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/internal/infrastructure/metrics"
	"nft-storefront.backend/pkg/logger"
)

const msgMintFailed = "mint failed"

// MintResult is a confirmed mint. TokenID is empty when the receipt carried
// no Transfer event from the token contract.
type MintResult struct {
	TxHash  string `json:"txHash"`
	TokenID string `json:"tokenId,omitempty"`
}

// MintUsecase mints tokens to the session's account with a fixed metadata URI.
type MintUsecase struct {
	tokens      TokenMinter
	metadataURI string
	sessions    repositories.SessionRepository
	provider    blockchain.WalletProvider
	recorder    *activityRecorder
	tx          TxConfig
}

// MintDeps wires a MintUsecase. Tokens may be nil when no token contract is
// configured.
type MintDeps struct {
	Tokens      TokenMinter
	MetadataURI string
	Sessions    repositories.SessionRepository
	Provider    blockchain.WalletProvider
	Activities  repositories.ActivityRepository
	Tx          TxConfig
	Metrics     *metrics.Metrics
}

func NewMintUsecase(d MintDeps) *MintUsecase {
	return &MintUsecase{
		tokens:      d.Tokens,
		metadataURI: d.MetadataURI,
		sessions:    d.Sessions,
		provider:    d.Provider,
		recorder:    &activityRecorder{repo: d.Activities, metrics: d.Metrics, now: time.Now},
		tx:          d.Tx,
	}
}

// Mint submits mintNFT(account, uri) and waits for inclusion. The collection
// is not rescanned.
func (u *MintUsecase) Mint(ctx context.Context, sessionID string) (*MintResult, error) {
	session, err := requireConnected(ctx, u.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	if u.provider == nil {
		return nil, domainerrors.ProviderMissing()
	}
	if u.tokens == nil {
		return nil, domainerrors.TransactionFailed(msgMintFailed, domainerrors.ErrContractCall)
	}

	activity := &entities.Activity{
		SessionID: session.ID,
		Kind:      entities.ActivityKindMint,
		Account:   session.Address,
	}
	u.recorder.start(ctx, activity)

	result, err := u.submitMint(ctx, session.Address, activity)
	if err != nil {
		u.recorder.fail(ctx, activity, failureReason(ctx, "Mint", err))
		return nil, domainerrors.TransactionFailed(msgMintFailed, err)
	}
	u.recorder.confirm(ctx, activity)
	logger.Info(ctx, "Mint confirmed", zap.String("tx_hash", result.TxHash), zap.String("token_id", result.TokenID))
	return result, nil
}

func (u *MintUsecase) submitMint(ctx context.Context, account string, activity *entities.Activity) (*MintResult, error) {
	writer, err := signerFor(ctx, u.provider, account)
	if err != nil {
		return nil, err
	}
	hash, err := u.tokens.MintNFT(ctx, writer, common.HexToAddress(account), u.metadataURI)
	if err != nil {
		return nil, err
	}
	activity.TxHash = null.StringFrom(hash.Hex())
	u.recorder.submitted(ctx, activity)

	receipt, err := awaitReceipt(ctx, writer, hash, u.tx.ReceiptTimeout)
	if err != nil {
		return nil, err
	}

	result := &MintResult{TxHash: hash.Hex()}
	if tokenID, ok := u.tokens.MintedTokenID(receipt); ok {
		result.TokenID = tokenID.String()
		activity.TokenID = null.StringFrom(result.TokenID)
	}
	return result, nil
}

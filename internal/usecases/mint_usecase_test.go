package usecases_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/usecases"
)

const mintURI = "ipfs://QmABC123xyz"

func newMintUsecase(tokens *fakeTokens, provider *MockWalletProvider, activities *MockActivityRepository) *usecases.MintUsecase {
	deps := usecases.MintDeps{
		MetadataURI: mintURI,
		Sessions:    newMemorySessions(connectedSession("s1"), entities.NewWalletSession("idle", time.Now())),
	}
	if activities != nil {
		deps.Activities = activities
	}
	if tokens != nil {
		deps.Tokens = tokens
	}
	if provider != nil {
		deps.Provider = provider
	}
	return usecases.NewMintUsecase(deps)
}

func TestMintUsecase_Mint_Success(t *testing.T) {
	tokens := &fakeTokens{mintHash: common.HexToHash("0xabc"), minted: big.NewInt(42)}
	provider := new(MockWalletProvider)
	provider.On("Signer", mock.Anything, testAccount).Return(&fakeWriter{receipt: successReceipt()}, nil).Once()
	activities := new(MockActivityRepository)
	activities.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Activity) bool {
		return a.Kind == entities.ActivityKindMint && a.Account == testAccount
	})).Return(nil).Once()
	activities.expectSubmitted(common.HexToHash("0xabc"))
	activities.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Activity) bool {
		return a.Status == entities.ActivityStatusConfirmed && a.TokenID.String == "42"
	})).Return(nil).Once()

	result, err := newMintUsecase(tokens, provider, activities).Mint(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xabc").Hex(), result.TxHash)
	assert.Equal(t, "42", result.TokenID)
	assert.Equal(t, common.HexToAddress(testAccount), tokens.mintTo)
	assert.Equal(t, mintURI, tokens.mintURI)
	activities.AssertExpectations(t)
}

func TestMintUsecase_Mint_WithoutTransferEvent(t *testing.T) {
	tokens := &fakeTokens{mintHash: common.HexToHash("0xabc")}
	provider := new(MockWalletProvider)
	provider.On("Signer", mock.Anything, testAccount).Return(&fakeWriter{receipt: successReceipt()}, nil).Once()
	activities := new(MockActivityRepository)
	activities.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	activities.On("Update", mock.Anything, mock.Anything).Return(nil).Twice()

	result, err := newMintUsecase(tokens, provider, activities).Mint(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, result.TokenID)
}

func TestMintUsecase_Mint_Failure(t *testing.T) {
	tokens := &fakeTokens{mintErr: errors.New("user denied transaction signature")}
	provider := new(MockWalletProvider)
	provider.On("Signer", mock.Anything, testAccount).Return(&fakeWriter{}, nil).Once()
	activities := new(MockActivityRepository)
	activities.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	activities.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Activity) bool {
		return a.Status == entities.ActivityStatusFailed && a.Error.String == "user denied transaction signature"
	})).Return(nil).Once()

	_, err := newMintUsecase(tokens, provider, activities).Mint(context.Background(), "s1")
	require.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	var appErr *domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "mint failed", appErr.Message)
	activities.AssertExpectations(t)
}

func TestMintUsecase_Mint_WaitError(t *testing.T) {
	tokens := &fakeTokens{mintHash: common.HexToHash("0xabc")}
	provider := new(MockWalletProvider)
	provider.On("Signer", mock.Anything, testAccount).Return(&fakeWriter{waitErr: context.DeadlineExceeded}, nil).Once()
	activities := new(MockActivityRepository)
	activities.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	activities.expectSubmitted(common.HexToHash("0xabc"))
	activities.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Activity) bool {
		return a.Status == entities.ActivityStatusFailed && a.TxHash.Valid
	})).Return(nil).Once()

	_, err := newMintUsecase(tokens, provider, activities).Mint(context.Background(), "s1")
	assert.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	activities.AssertExpectations(t)
}

func TestMintUsecase_Mint_Preconditions(t *testing.T) {
	_, err := newMintUsecase(&fakeTokens{}, new(MockWalletProvider), nil).Mint(context.Background(), "idle")
	assert.ErrorIs(t, err, domainerrors.ErrNotConnected)

	_, err = newMintUsecase(&fakeTokens{}, nil, nil).Mint(context.Background(), "s1")
	assert.ErrorIs(t, err, domainerrors.ErrProviderMissing)

	_, err = newMintUsecase(nil, new(MockWalletProvider), nil).Mint(context.Background(), "s1")
	assert.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
}

func TestMintUsecase_Mint_RequestCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writes []string
	activities := new(MockActivityRepository)
	activities.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	activities.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		a := args.Get(1).(*entities.Activity)
		writes = append(writes, string(a.Status)+":"+a.TxHash.String)
	}).Return(nil)

	writer := &fakeWriter{wait: func(waitCtx context.Context) (*types.Receipt, error) {
		writes = append(writes, "wait")
		cancel()
		<-waitCtx.Done()
		return nil, waitCtx.Err()
	}}
	provider := new(MockWalletProvider)
	provider.On("Signer", mock.Anything, testAccount).Return(writer, nil).Once()

	tokens := &fakeTokens{mintHash: common.HexToHash("0xabc")}
	_, err := newMintUsecase(tokens, provider, activities).Mint(ctx, "s1")
	require.ErrorIs(t, err, domainerrors.ErrTransactionFailed)

	hash := common.HexToHash("0xabc").Hex()
	assert.Equal(t, []string{"submitted:" + hash, "wait"}, writes, "hash stored before the wait, row left for the reconciler")
}

func TestMintUsecase_Mint_WritesSurviveCanceledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ctxErrs []error
	activities := new(MockActivityRepository)
	activities.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	activities.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctxErrs = append(ctxErrs, args.Get(0).(context.Context).Err())
	}).Return(nil)

	// the receipt arrives, then the client goes away before the final write
	writer := &fakeWriter{wait: func(context.Context) (*types.Receipt, error) {
		cancel()
		return successReceipt(), nil
	}}
	provider := new(MockWalletProvider)
	provider.On("Signer", mock.Anything, testAccount).Return(writer, nil).Once()

	_, err := newMintUsecase(&fakeTokens{mintHash: common.HexToHash("0xabc")}, provider, activities).Mint(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, ctxErrs, 2)
	assert.NoError(t, ctxErrs[0])
	assert.NoError(t, ctxErrs[1], "confirm write is not tied to the request")
}

package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/pkg/logger"
)

var errReceiptReverted = errors.New("transaction reverted")

// TxConfig controls how write flows wait for inclusion.
type TxConfig struct {
	ReceiptTimeout time.Duration
}

// signerFor resolves a writer for account; a missing provider is blocking.
func signerFor(ctx context.Context, provider blockchain.WalletProvider, account string) (blockchain.ChainWriter, error) {
	if provider == nil {
		return nil, domainerrors.ProviderMissing()
	}
	return provider.Signer(ctx, account)
}

// awaitReceipt waits for hash to be mined and treats a zero status as failure.
func awaitReceipt(ctx context.Context, writer blockchain.ChainWriter, hash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	receipt, err := writer.WaitMined(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("wait for receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		logger.Warn(ctx, "Transaction reverted", zap.String("tx_hash", hash.Hex()))
		return receipt, errReceiptReverted
	}
	return receipt, nil
}

// failureReason is what lands in the activity log; clients only ever see
// the generic flow message.
func failureReason(ctx context.Context, flow string, err error) string {
	reason := err.Error()
	if decoded, ok := decodeRevertReason(err); ok {
		reason = decoded
	}
	logger.Error(ctx, flow+" transaction failed", zap.String("reason", reason), zap.Error(err))
	return reason
}

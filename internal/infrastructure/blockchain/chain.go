package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ChainReader is the read-only capability contract accessors are bound to.
type ChainReader interface {
	ChainID() *big.Int
	CallView(ctx context.Context, to string, data []byte) ([]byte, error)
}

// ChainWriter can additionally submit transactions on behalf of one account.
type ChainWriter interface {
	ChainReader
	Account() common.Address
	Transact(ctx context.Context, to string, parsedABI abi.ABI, value *big.Int, method string, args ...interface{}) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

var (
	_ ChainReader = (*EVMClient)(nil)
	_ ChainWriter = (*KeyedSigner)(nil)
	_ ChainWriter = (*walletSigner)(nil)
)

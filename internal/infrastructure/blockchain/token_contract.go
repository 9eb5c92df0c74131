package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	domainerrors "nft-storefront.backend/internal/domain/errors"
)

// TokenContract reads and mints tokens of the ERC-721 collection at a fixed address.
type TokenContract struct {
	address common.Address
	reader  ChainReader
}

func NewTokenContract(address string, reader ChainReader) *TokenContract {
	return &TokenContract{
		address: common.HexToAddress(address),
		reader:  reader,
	}
}

func (t *TokenContract) Address() common.Address {
	return t.address
}

// OwnerOf reverts on-chain for ids that were never minted; callers treat
// any error as "no owner".
func (t *TokenContract) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	owner, err := callTypedView[common.Address](ctx, t.reader, t.address.Hex(), TokenABI, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: ownerOf(%s): %v", domainerrors.ErrContractCall, tokenID, err)
	}
	return owner, nil
}

func (t *TokenContract) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	uri, err := callTypedView[string](ctx, t.reader, t.address.Hex(), TokenABI, "tokenURI", tokenID)
	if err != nil {
		return "", fmt.Errorf("%w: tokenURI(%s): %v", domainerrors.ErrContractCall, tokenID, err)
	}
	return uri, nil
}

// MintNFT submits mintNFT(to, uri) signed by writer.
func (t *TokenContract) MintNFT(ctx context.Context, writer ChainWriter, to common.Address, uri string) (common.Hash, error) {
	return writer.Transact(ctx, t.address.Hex(), TokenABI, nil, "mintNFT", to, uri)
}

// MintedTokenID returns the id of the first Transfer from the zero address
// emitted by this contract in receipt.
func (t *TokenContract) MintedTokenID(receipt *types.Receipt) (*big.Int, bool) {
	if receipt == nil {
		return nil, false
	}
	for _, lg := range receipt.Logs {
		if lg == nil || lg.Address != t.address || len(lg.Topics) != 4 {
			continue
		}
		if lg.Topics[0] != TransferEventTopic || lg.Topics[1] != (common.Hash{}) {
			continue
		}
		return new(big.Int).SetBytes(lg.Topics[3].Bytes()), true
	}
	return nil, false
}

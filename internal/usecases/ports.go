package usecases

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/infrastructure/blockchain"
)

// TokenReader is the read side of the token contract.
type TokenReader interface {
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
}

// TokenMinter is the write side of the token contract.
type TokenMinter interface {
	MintNFT(ctx context.Context, writer blockchain.ChainWriter, to common.Address, uri string) (common.Hash, error)
	MintedTokenID(receipt *types.Receipt) (*big.Int, bool)
}

// Marketplace is the marketplace contract as seen by the storefront.
type Marketplace interface {
	GetAllListings(ctx context.Context, nftContract common.Address, tokenIDs []*big.Int) ([]blockchain.MarketListing, error)
	BuyNFT(ctx context.Context, writer blockchain.ChainWriter, listingID, value *big.Int) (common.Hash, error)
}

// MetadataResolver turns token URIs into display records.
type MetadataResolver interface {
	Resolve(ctx context.Context, tokenID, uri string) entities.Metadata
}

// ScanConfig bounds the id ranges probed by the scanners.
type ScanConfig struct {
	CollectionBound int
	MarketBound     int
	Concurrency     int
}

func (c ScanConfig) concurrency() int {
	if c.Concurrency <= 0 {
		return 1
	}
	return c.Concurrency
}

// tokenIDRange returns 1..bound.
func tokenIDRange(bound int) []*big.Int {
	if bound <= 0 {
		return nil
	}
	ids := make([]*big.Int, bound)
	for i := range ids {
		ids[i] = big.NewInt(int64(i + 1))
	}
	return ids
}

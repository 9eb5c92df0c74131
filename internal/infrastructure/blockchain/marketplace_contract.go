package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	domainerrors "nft-storefront.backend/internal/domain/errors"
)

// MarketListing is one tuple returned by getAllListings.
type MarketListing struct {
	ID          *big.Int
	NFTContract common.Address
	TokenID     *big.Int
	Seller      common.Address
	Price       *big.Int
}

// abiListing mirrors the tuple component names so abi.ConvertType can copy it.
type abiListing struct {
	Id          *big.Int
	NftContract common.Address
	TokenId     *big.Int
	Seller      common.Address
	Price       *big.Int
}

// MarketplaceContract reads listings and submits purchases against a fixed address.
type MarketplaceContract struct {
	address common.Address
	reader  ChainReader
}

func NewMarketplaceContract(address string, reader ChainReader) *MarketplaceContract {
	return &MarketplaceContract{
		address: common.HexToAddress(address),
		reader:  reader,
	}
}

func (m *MarketplaceContract) Address() common.Address {
	return m.address
}

// GetAllListings queries the listings of nftContract for the given token ids.
// Entries for ids without an active listing come back with a zero seller.
func (m *MarketplaceContract) GetAllListings(ctx context.Context, nftContract common.Address, tokenIDs []*big.Int) ([]MarketListing, error) {
	data, err := MarketplaceABI.Pack("getAllListings", nftContract, tokenIDs)
	if err != nil {
		return nil, err
	}
	out, err := m.reader.CallView(ctx, m.address.Hex(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: getAllListings: %v", domainerrors.ErrContractCall, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: getAllListings: empty response", domainerrors.ErrContractCall)
	}
	vals, err := MarketplaceABI.Unpack("getAllListings", out)
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("%w: failed to decode getAllListings", domainerrors.ErrContractCall)
	}

	raw, ok := abi.ConvertType(vals[0], new([]abiListing)).(*[]abiListing)
	if !ok {
		return nil, fmt.Errorf("%w: invalid getAllListings return type", domainerrors.ErrContractCall)
	}

	listings := make([]MarketListing, 0, len(*raw))
	for _, l := range *raw {
		listings = append(listings, MarketListing{
			ID:          l.Id,
			NFTContract: l.NftContract,
			TokenID:     l.TokenId,
			Seller:      l.Seller,
			Price:       l.Price,
		})
	}
	return listings, nil
}

// BuyNFT submits buyNFT(listingID) with value attached.
func (m *MarketplaceContract) BuyNFT(ctx context.Context, writer ChainWriter, listingID, value *big.Int) (common.Hash, error) {
	return writer.Transact(ctx, m.address.Hex(), MarketplaceABI, value, "buyNFT", listingID)
}

package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"nft-storefront.backend/internal/config"
	"nft-storefront.backend/internal/domain/entities"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/internal/infrastructure/jobs"
	"nft-storefront.backend/internal/usecases"
	"nft-storefront.backend/pkg/logger"
)

// contractSet holds the contract accessors as the interfaces the usecases
// take. A field stays nil when its address is not configured or there is
// no chain connection, so the usecases see a true nil.
type contractSet struct {
	tokenReader   usecases.TokenReader
	tokenMinter   usecases.TokenMinter
	mintedTokens  jobs.MintedTokenExtractor
	listingTokens usecases.TokenReader
	listingNFT    common.Address
	market        usecases.Marketplace
}

func wireContracts(ctx context.Context, cfg config.ContractsConfig, chain blockchain.ChainReader) contractSet {
	var set contractSet
	if common.IsHexAddress(cfg.ListingNFTAddress) {
		set.listingNFT = common.HexToAddress(cfg.ListingNFTAddress)
	}
	if chain == nil {
		return set
	}

	if common.IsHexAddress(cfg.NFTAddress) {
		token := blockchain.NewTokenContract(cfg.NFTAddress, chain)
		set.tokenReader = token
		set.tokenMinter = token
		set.mintedTokens = token
	} else {
		logger.Warn(ctx, "NFT contract address not configured", zap.String("address", cfg.NFTAddress))
	}

	if common.IsHexAddress(cfg.ListingNFTAddress) {
		set.listingTokens = blockchain.NewTokenContract(cfg.ListingNFTAddress, chain)
	}

	if common.IsHexAddress(cfg.MarketplaceAddress) {
		set.market = blockchain.NewMarketplaceContract(cfg.MarketplaceAddress, chain)
	} else {
		logger.Warn(ctx, "Marketplace contract address not configured", zap.String("address", cfg.MarketplaceAddress))
	}
	return set
}

func expectedNetwork(cfg config.BlockchainConfig) entities.Network {
	return entities.Network{
		ChainID:          cfg.ExpectedChainID,
		Name:             cfg.ChainName,
		CurrencySymbol:   cfg.NativeCurrency,
		RPCURL:           cfg.RPCURL,
		BlockExplorerURL: cfg.BlockExplorerURL,
	}
}

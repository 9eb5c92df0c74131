package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"nft-storefront.backend/internal/config"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/internal/infrastructure/metadata"
	"nft-storefront.backend/internal/usecases"
	"nft-storefront.backend/pkg/logger"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	dialChain  = blockchain.NewEVMClient
)

func main() {
	if err := newRootCmd(buildViews).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildViews wires the read-only usecases the terminal views render.
func buildViews(ctx context.Context) (*views, error) {
	_ = loadDotenv()
	cfg := loadCfg()
	logger.Init("production")

	resolver := metadata.NewResolver(metadata.Config{
		GatewayURL:   cfg.Metadata.GatewayURL,
		Timeout:      cfg.Metadata.Timeout,
		MaxBodyBytes: cfg.Metadata.MaxBodyBytes,
		MaxRetries:   cfg.Metadata.MaxRetries,
		RetryDelay:   cfg.Metadata.RetryDelay,
	}, nil)
	v := &views{metadata: resolver}

	chain, err := dialChain(cfg.Blockchain.RPCURL)
	if err != nil {
		v.chainErr = fmt.Errorf("failed to reach %s: %w", cfg.Blockchain.RPCURL, err)
		return v, nil
	}

	scan := usecases.ScanConfig{
		CollectionBound: cfg.Scanner.CollectionBound,
		MarketBound:     cfg.Scanner.MarketBound,
		Concurrency:     cfg.Scanner.Concurrency,
	}

	var tokens usecases.TokenReader
	if common.IsHexAddress(cfg.Contracts.NFTAddress) {
		tokens = blockchain.NewTokenContract(cfg.Contracts.NFTAddress, chain)
	}
	v.collection = usecases.NewCollectionUsecase(tokens, resolver, scan, nil)

	deps := usecases.MarketplaceDeps{Resolver: resolver, Scan: scan}
	if common.IsHexAddress(cfg.Contracts.MarketplaceAddress) {
		deps.Market = blockchain.NewMarketplaceContract(cfg.Contracts.MarketplaceAddress, chain)
	}
	if common.IsHexAddress(cfg.Contracts.ListingNFTAddress) {
		deps.Tokens = blockchain.NewTokenContract(cfg.Contracts.ListingNFTAddress, chain)
		deps.NFTAddress = common.HexToAddress(cfg.Contracts.ListingNFTAddress)
	}
	v.market = usecases.NewMarketplaceUsecase(deps)
	return v, nil
}

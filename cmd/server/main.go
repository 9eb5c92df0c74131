package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nft-storefront.backend/internal/config"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	pgstore "nft-storefront.backend/internal/infrastructure/datasources/postgres"
	"nft-storefront.backend/internal/infrastructure/jobs"
	"nft-storefront.backend/internal/infrastructure/metadata"
	"nft-storefront.backend/internal/infrastructure/metrics"
	"nft-storefront.backend/internal/infrastructure/repositories"
	"nft-storefront.backend/internal/interfaces/http/handlers"
	"nft-storefront.backend/internal/interfaces/http/middleware"
	"nft-storefront.backend/internal/usecases"
	"nft-storefront.backend/pkg/jwt"
	"nft-storefront.backend/pkg/logger"
	"nft-storefront.backend/pkg/redis"
)

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = pgstore.Open
	pingDB          = pgstore.Ping
	migrateDB       = pgstore.Migrate
	newSessionStore = redis.NewSessionStore
	dialChain       = func(f *blockchain.ClientFactory, rpcURL string) (*blockchain.EVMClient, error) {
		return f.GetEVMClient(rpcURL)
	}
	newWalletProvider = blockchain.NewWalletProvider
	newRegistry       = prometheus.NewRegistry
	runServer         = serveHTTP
	getStdDB          = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

const shutdownTimeout = 10 * time.Second

// serveHTTP serves until ctx is cancelled, then drains in-flight requests.
func serveHTTP(ctx context.Context, handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Activity log database
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := pingDB(db); err != nil {
		logger.Warn(ctx, "Database not available, activity log will return errors", zap.Error(err))
	} else if err := migrateDB(db); err != nil {
		return err
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessionRepo := repositories.NewSessionRepository(sessionStore)
	activityRepo := repositories.NewActivityRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionExpiry)

	// Chain access degrades: without a node every scan reports not_configured
	// and the write flows report a missing provider.
	clientFactory := blockchain.NewClientFactory()
	defer clientFactory.CloseAll()

	var (
		chainReader blockchain.ChainReader
		receipts    jobs.ReceiptSource
		provider    blockchain.WalletProvider
	)
	chain, err := dialChain(clientFactory, cfg.Blockchain.RPCURL)
	if err != nil {
		logger.Warn(ctx, "EVM node not reachable, chain features disabled",
			zap.String("rpc_url", cfg.Blockchain.RPCURL), zap.Error(err))
	} else {
		chainReader = chain
		receipts = chain
		if chain.ChainID().Int64() != cfg.Blockchain.ExpectedChainID {
			logger.Warn(ctx, "EVM node serves an unexpected chain",
				zap.Int64("chain_id", chain.ChainID().Int64()),
				zap.Int64("expected_chain_id", cfg.Blockchain.ExpectedChainID))
		}
		provider, err = newWalletProvider(ctx, chain, blockchain.WalletProviderOptions{
			WalletRPCURL:     cfg.Blockchain.WalletRPCURL,
			SignerPrivateKey: cfg.Blockchain.SignerPrivateKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize wallet provider: %w", err)
		}
		if provider == nil {
			logger.Warn(ctx, "No wallet provider configured")
		}
	}
	contracts := wireContracts(ctx, cfg.Contracts, chainReader)

	resolver := metadata.NewResolver(metadata.Config{
		GatewayURL:   cfg.Metadata.GatewayURL,
		Timeout:      cfg.Metadata.Timeout,
		MaxBodyBytes: cfg.Metadata.MaxBodyBytes,
		MaxRetries:   cfg.Metadata.MaxRetries,
		RetryDelay:   cfg.Metadata.RetryDelay,
	}, nil)

	registry := newRegistry()
	storefrontMetrics := metrics.New(registry)

	scanCfg := usecases.ScanConfig{
		CollectionBound: cfg.Scanner.CollectionBound,
		MarketBound:     cfg.Scanner.MarketBound,
		Concurrency:     cfg.Scanner.Concurrency,
	}
	txCfg := usecases.TxConfig{ReceiptTimeout: cfg.Blockchain.ReceiptTimeout}

	// Initialize usecases
	sessionUsecase := usecases.NewWalletSessionUsecase(sessionRepo, provider, expectedNetwork(cfg.Blockchain), cfg.JWT.SessionExpiry)
	shellUsecase := usecases.NewShellUsecase(sessionRepo)
	collectionUsecase := usecases.NewCollectionUsecase(contracts.tokenReader, resolver, scanCfg, storefrontMetrics)
	marketplaceUsecase := usecases.NewMarketplaceUsecase(usecases.MarketplaceDeps{
		Market:     contracts.market,
		Tokens:     contracts.listingTokens,
		NFTAddress: contracts.listingNFT,
		Resolver:   resolver,
		Sessions:   sessionRepo,
		Provider:   provider,
		Activities: activityRepo,
		Scan:       scanCfg,
		Tx:         txCfg,
		Metrics:    storefrontMetrics,
	})
	mintUsecase := usecases.NewMintUsecase(usecases.MintDeps{
		Tokens:      contracts.tokenMinter,
		MetadataURI: cfg.Contracts.MintMetadataURI,
		Sessions:    sessionRepo,
		Provider:    provider,
		Activities:  activityRepo,
		Tx:          txCfg,
		Metrics:     storefrontMetrics,
	})
	activityUsecase := usecases.NewActivityUsecase(activityRepo)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionUsecase, jwtService)
	shellHandler := handlers.NewShellHandler(shellUsecase, sessionUsecase)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceUsecase)
	collectionHandler := handlers.NewCollectionHandler(collectionUsecase)
	mintHandler := handlers.NewMintHandler(mintUsecase)
	metadataHandler := handlers.NewMetadataHandler(resolver)
	activityHandler := handlers.NewActivityHandler(activityUsecase)

	// Start background jobs
	var reconcileJob *jobs.ActivityReconcileJob
	if receipts != nil {
		reconcileJob = jobs.NewActivityReconcileJob(activityRepo, receipts, contracts.mintedTokens, 2*cfg.Blockchain.ReceiptTimeout)
		go reconcileJob.Start(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(storefrontMetrics))

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	registerAPIV1Routes(r, routeDeps{
		sessionHandler:     sessionHandler,
		shellHandler:       shellHandler,
		marketplaceHandler: marketplaceHandler,
		collectionHandler:  collectionHandler,
		mintHandler:        mintHandler,
		metadataHandler:    metadataHandler,
		activityHandler:    activityHandler,
		sessionMiddleware:  middleware.SessionMiddleware(jwtService, sessionRepo),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logger.Info(ctx, "Shutting down server")
		if reconcileJob != nil {
			reconcileJob.Stop()
		}
		cancel()
	}()

	logger.Info(ctx, "NFT storefront backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Server.Port)),
		zap.String("health", fmt.Sprintf("http://localhost:%s/health", cfg.Server.Port)),
	)

	if err := runServer(ctx, r, cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

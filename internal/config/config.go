package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Contracts  ContractsConfig
	Scanner    ScannerConfig
	Metadata   MetadataConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

// BlockchainConfig holds the chain endpoint and wallet provider settings.
// WalletRPCURL is the EIP-1193 style account provider; an empty value
// means there is no wallet available.
type BlockchainConfig struct {
	RPCURL           string
	WalletRPCURL     string
	SignerPrivateKey string
	ExpectedChainID  int64
	ChainName        string
	NativeCurrency   string
	BlockExplorerURL string
	ReceiptTimeout   time.Duration
}

// ContractsConfig holds the deployed contract addresses
type ContractsConfig struct {
	NFTAddress         string
	MarketplaceAddress string
	// ListingNFTAddress is the collection the marketplace is queried for.
	ListingNFTAddress string
	MintMetadataURI   string
}

// ScannerConfig bounds the id ranges probed by the scanners
type ScannerConfig struct {
	CollectionBound int
	MarketBound     int
	Concurrency     int
}

// MetadataConfig holds the IPFS gateway settings
type MetadataConfig struct {
	GatewayURL   string
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxRetries   int
	RetryDelay   time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	nftAddress := getEnv("NFT_CONTRACT_ADDRESS", "0x22FB726b8f1C1Eef3644B2ee73aA943AF98d2414")

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "nftstorefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			SessionExpiry: getEnvAsDuration("SESSION_EXPIRY", 24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:           getEnv("EVM_RPC_URL", "https://ethereum-sepolia-rpc.publicnode.com"),
			WalletRPCURL:     getEnv("WALLET_RPC_URL", ""),
			SignerPrivateKey: strings.TrimSpace(getEnv("WALLET_PRIVATE_KEY", "")),
			ExpectedChainID:  getEnvAsInt64("EXPECTED_CHAIN_ID", 11155111),
			ChainName:        getEnv("EXPECTED_CHAIN_NAME", "Sepolia"),
			NativeCurrency:   getEnv("EXPECTED_CHAIN_CURRENCY", "SepoliaETH"),
			BlockExplorerURL: getEnv("EXPECTED_CHAIN_EXPLORER", "https://sepolia.etherscan.io"),
			ReceiptTimeout:   getEnvAsDuration("TX_RECEIPT_TIMEOUT", 3*time.Minute),
		},
		Contracts: ContractsConfig{
			NFTAddress:         nftAddress,
			MarketplaceAddress: getEnvAllowEmpty("MARKETPLACE_CONTRACT_ADDRESS", "0x6005b3432200D9Ae8ec786e5C7caB06F4429a1E8"),
			ListingNFTAddress:  getEnv("LISTING_NFT_ADDRESS", nftAddress),
			MintMetadataURI:    getEnv("MINT_METADATA_URI", "ipfs://QmABC123xyz"),
		},
		Scanner: ScannerConfig{
			CollectionBound: getEnvAsInt("COLLECTION_SCAN_BOUND", 50),
			MarketBound:     getEnvAsInt("MARKET_SCAN_BOUND", 10),
			Concurrency:     getEnvAsInt("SCAN_CONCURRENCY", 8),
		},
		Metadata: MetadataConfig{
			GatewayURL:   getEnv("IPFS_GATEWAY_URL", "https://ipfs.io/ipfs/"),
			Timeout:      getEnvAsDuration("METADATA_TIMEOUT", 10*time.Second),
			MaxBodyBytes: getEnvAsInt64("METADATA_MAX_BODY_BYTES", 1<<20),
			MaxRetries:   getEnvAsInt("METADATA_MAX_RETRIES", 2),
			RetryDelay:   getEnvAsDuration("METADATA_RETRY_DELAY", 200*time.Millisecond),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty lets an explicitly empty variable switch a feature off.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

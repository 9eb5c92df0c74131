package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	domainerrors "nft-storefront.backend/internal/domain/errors"
)

// Provider error codes (EIP-1193, EIP-3085).
const (
	ProviderCodeUserRejected      = 4001
	ProviderCodeUnsupportedMethod = 4200
	ProviderCodeUnknownChain      = 4902
)

var dialWalletRPC = rpc.DialContext

// WalletProvider is the account capability a session talks to. A nil
// WalletProvider means no wallet is available.
type WalletProvider interface {
	// RequestAccounts asks for account access and may prompt the user.
	RequestAccounts(ctx context.Context) ([]string, error)
	// Accounts lists already authorised accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error
	AddChain(ctx context.Context, params AddChainParams) error
	// Signer returns a writer that submits transactions as account.
	Signer(ctx context.Context, account string) (ChainWriter, error)
}

// AddChainParams describes a chain for wallet_addEthereumChain.
type AddChainParams struct {
	ChainID          *big.Int
	ChainName        string
	CurrencySymbol   string
	RPCURL           string
	BlockExplorerURL string
}

// ProviderError is a provider failure carrying an EIP-1193 code.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string  { return e.Message }
func (e *ProviderError) ErrorCode() int { return e.Code }

// ProviderErrorCode extracts the numeric code of a provider or JSON-RPC error.
func ProviderErrorCode(err error) (int, bool) {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode(), true
	}
	return 0, false
}

// WalletProviderOptions selects which provider NewWalletProvider builds.
type WalletProviderOptions struct {
	WalletRPCURL     string
	SignerPrivateKey string
}

// NewWalletProvider returns an RPC-backed provider when a wallet endpoint is
// configured, a key-backed provider when only a signing key is, and nil
// when neither is.
func NewWalletProvider(ctx context.Context, chain *EVMClient, opts WalletProviderOptions) (WalletProvider, error) {
	var keyed *KeyedSigner
	if strings.TrimSpace(opts.SignerPrivateKey) != "" {
		signer, err := NewKeyedSigner(chain, opts.SignerPrivateKey)
		if err != nil {
			return nil, err
		}
		keyed = signer
	}

	if url := strings.TrimSpace(opts.WalletRPCURL); url != "" {
		client, err := dialWalletRPC(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to dial wallet rpc: %w", err)
		}
		return &RPCWalletProvider{client: client, chain: chain, keyed: keyed}, nil
	}

	if keyed != nil {
		return &KeyedWalletProvider{signer: keyed}, nil
	}
	return nil, nil
}

// RPCWalletProvider talks to an EIP-1193 style JSON-RPC wallet endpoint.
type RPCWalletProvider struct {
	client *rpc.Client
	chain  *EVMClient
	keyed  *KeyedSigner
}

func NewRPCWalletProvider(client *rpc.Client, chain *EVMClient, keyed *KeyedSigner) *RPCWalletProvider {
	return &RPCWalletProvider{client: client, chain: chain, keyed: keyed}
}

func (p *RPCWalletProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *RPCWalletProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *RPCWalletProvider) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := p.client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}

func (p *RPCWalletProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	params := map[string]string{"chainId": hexutil.EncodeBig(chainID)}
	return p.client.CallContext(ctx, nil, "wallet_switchEthereumChain", params)
}

func (p *RPCWalletProvider) AddChain(ctx context.Context, params AddChainParams) error {
	payload := map[string]interface{}{
		"chainId":   hexutil.EncodeBig(params.ChainID),
		"chainName": params.ChainName,
		"nativeCurrency": map[string]interface{}{
			"name":     params.CurrencySymbol,
			"symbol":   params.CurrencySymbol,
			"decimals": 18,
		},
		"rpcUrls": []string{params.RPCURL},
	}
	if params.BlockExplorerURL != "" {
		payload["blockExplorerUrls"] = []string{params.BlockExplorerURL}
	}
	return p.client.CallContext(ctx, nil, "wallet_addEthereumChain", payload)
}

// Signer prefers the local key when it controls account and otherwise lets
// the wallet sign through eth_sendTransaction.
func (p *RPCWalletProvider) Signer(_ context.Context, account string) (ChainWriter, error) {
	if !common.IsHexAddress(account) {
		return nil, domainerrors.ErrSignerUnavailable
	}
	addr := common.HexToAddress(account)
	if p.keyed != nil && p.keyed.Account() == addr {
		return p.keyed, nil
	}
	if p.chain == nil {
		return nil, domainerrors.ErrSignerUnavailable
	}
	return &walletSigner{EVMClient: p.chain, wallet: p.client, account: addr}, nil
}

// KeyedWalletProvider exposes the single account of a local signing key.
type KeyedWalletProvider struct {
	signer *KeyedSigner
}

func NewKeyedWalletProvider(signer *KeyedSigner) *KeyedWalletProvider {
	return &KeyedWalletProvider{signer: signer}
}

func (p *KeyedWalletProvider) RequestAccounts(_ context.Context) ([]string, error) {
	return []string{p.signer.Account().Hex()}, nil
}

func (p *KeyedWalletProvider) Accounts(_ context.Context) ([]string, error) {
	return []string{p.signer.Account().Hex()}, nil
}

func (p *KeyedWalletProvider) ChainID(_ context.Context) (*big.Int, error) {
	return p.signer.ChainID(), nil
}

func (p *KeyedWalletProvider) SwitchChain(_ context.Context, _ *big.Int) error {
	return &ProviderError{Code: ProviderCodeUnsupportedMethod, Message: "local signer cannot switch chains"}
}

func (p *KeyedWalletProvider) AddChain(_ context.Context, _ AddChainParams) error {
	return &ProviderError{Code: ProviderCodeUnsupportedMethod, Message: "local signer cannot add chains"}
}

func (p *KeyedWalletProvider) Signer(_ context.Context, account string) (ChainWriter, error) {
	if !strings.EqualFold(account, p.signer.Account().Hex()) {
		return nil, domainerrors.ErrSignerUnavailable
	}
	return p.signer, nil
}

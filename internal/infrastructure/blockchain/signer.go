package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	domainerrors "nft-storefront.backend/internal/domain/errors"
)

var (
	performContractTransact = func(client *ethclient.Client, contractAddress string, parsedABI abi.ABI, auth *bind.TransactOpts, method string, args ...interface{}) (common.Hash, error) {
		contract := bind.NewBoundContract(common.HexToAddress(contractAddress), parsedABI, client, client, client)
		tx, err := contract.Transact(auth, method, args...)
		if err != nil {
			return common.Hash{}, err
		}
		return tx.Hash(), nil
	}
	sendWalletTransaction = func(ctx context.Context, client *rpc.Client, call walletTxCall) (common.Hash, error) {
		var hash common.Hash
		err := client.CallContext(ctx, &hash, "eth_sendTransaction", call)
		return hash, err
	}
)

// KeyedSigner signs locally with a private key and broadcasts through the EVM client.
type KeyedSigner struct {
	*EVMClient
	key     *ecdsa.PrivateKey
	account common.Address
}

// NewKeyedSigner parses a hex private key, with or without 0x prefix.
func NewKeyedSigner(client *EVMClient, privateKeyHex string) (*KeyedSigner, error) {
	if client == nil {
		return nil, fmt.Errorf("evm client is required")
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, domainerrors.BadRequest("invalid signer private key")
	}
	return &KeyedSigner{
		EVMClient: client,
		key:       privateKey,
		account:   crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

func (s *KeyedSigner) Account() common.Address {
	return s.account
}

func (s *KeyedSigner) Transact(ctx context.Context, to string, parsedABI abi.ABI, value *big.Int, method string, args ...interface{}) (common.Hash, error) {
	chainID := s.ChainID()
	if chainID == nil {
		return common.Hash{}, fmt.Errorf("chain id is nil")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(s.key, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	auth.Context = ctx
	auth.Value = value

	return performContractTransact(s.client, to, parsedABI, auth, method, args...)
}

type walletTxCall struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value,omitempty"`
}

// walletSigner delegates signing to the wallet through eth_sendTransaction.
type walletSigner struct {
	*EVMClient
	wallet  *rpc.Client
	account common.Address
}

func (s *walletSigner) Account() common.Address {
	return s.account
}

func (s *walletSigner) Transact(ctx context.Context, to string, parsedABI abi.ABI, value *big.Int, method string, args ...interface{}) (common.Hash, error) {
	data, err := parsedABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, err
	}
	call := walletTxCall{
		From: s.account,
		To:   common.HexToAddress(to),
		Data: data,
	}
	if value != nil && value.Sign() > 0 {
		call.Value = (*hexutil.Big)(value)
	}
	return sendWalletTransaction(ctx, s.wallet, call)
}

package entities

import (
	"strconv"
)

// Network describes the chain the storefront expects wallets to be on
type Network struct {
	ChainID          int64  `json:"chainId"`
	Name             string `json:"name"`
	CurrencySymbol   string `json:"currencySymbol"`
	RPCURL           string `json:"rpcUrl"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty"`
}

// GetCAIP2ID returns the CAIP-2 formatted chain ID
func (n *Network) GetCAIP2ID() string {
	return "eip155:" + strconv.FormatInt(n.ChainID, 10)
}

// Matches reports whether a wallet-reported chain id is this network
func (n *Network) Matches(chainID int64) bool {
	return n.ChainID == chainID
}

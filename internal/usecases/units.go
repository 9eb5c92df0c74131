package usecases

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	domainerrors "nft-storefront.backend/internal/domain/errors"
)

const etherDecimals = 18

// parseEther converts a decimal ether amount to wei without going through
// floating point.
func parseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, domainerrors.BadRequest("price is required")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, domainerrors.BadRequest("price must not be negative")
	}
	amount = strings.TrimPrefix(amount, "+")

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" && frac == "" {
		return nil, domainerrors.BadRequest("invalid price")
	}
	if len(frac) > etherDecimals {
		return nil, domainerrors.BadRequest("price has more than 18 decimal places")
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, domainerrors.BadRequest("invalid price")
	}

	digits := whole + frac + strings.Repeat("0", etherDecimals-len(frac))
	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, domainerrors.BadRequest("invalid price")
	}
	return wei, nil
}

// formatEther renders non-negative wei as a decimal ether string with trailing zeros trimmed.
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(wei, big.NewInt(params.Ether), new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := r.String()
	frac = strings.Repeat("0", etherDecimals-len(frac)) + frac
	return q.String() + "." + strings.TrimRight(frac, "0")
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

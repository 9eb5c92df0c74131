package usecases

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	revertHexPattern = regexp.MustCompile(`0x[0-9a-fA-F]{8,}`)
	revertStringArgs = abi.Arguments{{Type: mustNewType("string")}}
)

const (
	errorStringSelector = "0x08c379a0"
	panicSelector       = "0x4e487b71"
)

func mustNewType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// decodeRevertReason extracts a human readable revert reason from a failed
// call or transaction. It supports rpc.DataError payloads and hex found in
// the error string.
func decodeRevertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if data, ok := extractRevertHexFromDataError(err); ok {
		return decodeRevertData(data), true
	}
	if data, ok := extractRevertHexFromErrorString(err.Error()); ok {
		return decodeRevertData(data), true
	}
	return "", false
}

func decodeRevertData(data []byte) string {
	if len(data) < 4 {
		return "execution reverted"
	}
	selector := "0x" + hex.EncodeToString(data[:4])
	switch selector {
	case errorStringSelector:
		if values, err := revertStringArgs.Unpack(data[4:]); err == nil && len(values) == 1 {
			if msg, ok := values[0].(string); ok {
				return msg
			}
		}
	case panicSelector:
		if len(data) >= 36 {
			return fmt.Sprintf("panic code: %s", new(big.Int).SetBytes(data[4:36]).String())
		}
	}
	return "custom error " + selector
}

func extractRevertHexFromDataError(err error) ([]byte, bool) {
	type rpcDataError interface {
		ErrorData() interface{}
	}
	dataErr, ok := err.(rpcDataError)
	if !ok {
		return nil, false
	}
	return parseRevertBytesFromAny(dataErr.ErrorData())
}

func parseRevertBytesFromAny(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case string:
		return parseHexBytes(v)
	case []byte:
		if len(v) == 0 {
			return nil, false
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, true
	case map[string]interface{}:
		if raw, ok := v["data"]; ok {
			return parseRevertBytesFromAny(raw)
		}
	}
	return nil, false
}

func extractRevertHexFromErrorString(message string) ([]byte, bool) {
	for _, candidate := range revertHexPattern.FindAllString(message, -1) {
		if data, ok := parseHexBytes(candidate); ok {
			return data, true
		}
	}
	return nil, false
}

func parseHexBytes(raw string) ([]byte, bool) {
	value := strings.TrimSpace(strings.TrimPrefix(raw, "0x"))
	if len(value) < 8 || len(value)%2 != 0 {
		return nil, false
	}
	data, err := hex.DecodeString(value)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

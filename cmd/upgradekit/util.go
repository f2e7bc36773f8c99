package main

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/upgradekit/upgradekit/internal/utils/safecast"
	"github.com/upgradekit/upgradekit/types"
)

func loadPrivateKey() (*ecdsa.PrivateKey, error) {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		return nil, err
	}

	// Load PrivateKey
	pk := os.Getenv("PRIVATE_KEY")
	if pk == "" {
		return nil, errors.New("PRIVATE_KEY not found in .env file")
	}

	return crypto.HexToECDSA(strings.TrimPrefix(pk, "0x"))
}

func dialNode(rpcURL string, chainID uint64) (*ethclient.Client, *bind.TransactOpts, error) {
	pk, err := loadPrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading private key: %w", err)
	}

	signedChainID, err := safecast.Uint64ToInt64(chainID)
	if err != nil {
		return nil, nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(pk, big.NewInt(signedChainID))
	if err != nil {
		return nil, nil, err
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error dialing %s: %w", rpcURL, err)
	}

	return client, auth, nil
}

// parseInitArgs coerces string flag values into Go values the ABI encoder
// accepts for the declared types. Only the scalar types a proxy initializer
// realistically takes are supported.
func parseInitArgs(typeNames []string, rawValues []string) (types.InitArgs, error) {
	if len(typeNames) != len(rawValues) {
		return types.InitArgs{}, fmt.Errorf("init args mismatch: %d types, %d values", len(typeNames), len(rawValues))
	}

	values := make([]any, 0, len(rawValues))
	for i, name := range typeNames {
		value, err := coerceInitArg(name, rawValues[i])
		if err != nil {
			return types.InitArgs{}, err
		}

		values = append(values, value)
	}

	return types.NewInitArgs(typeNames, values), nil
}

func coerceInitArg(typeName, raw string) (any, error) {
	switch {
	case typeName == "address":
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%q is not a valid address", raw)
		}

		return common.HexToAddress(raw), nil
	case typeName == "bool":
		return cast.ToBoolE(raw)
	case typeName == "string":
		return raw, nil
	case typeName == "bytes":
		return hexutil.Decode(raw)
	case typeName == "uint256" || typeName == "int256":
		value, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("%q is not a valid %s", raw, typeName)
		}

		return value, nil
	default:
		return nil, fmt.Errorf("unsupported init arg type %q", typeName)
	}
}

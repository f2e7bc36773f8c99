// Package evmabi wraps go-ethereum's ABI encoder for callers that carry type
// names and values as parallel sequences instead of generated bindings.
package evmabi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// RawEncode is the equivalent of abi.encode over a list of type names.
// See a full set of type examples
// https://github.com/ethereum/go-ethereum/blob/420b78659bef661a83c5c442121b13f13288c09f/accounts/abi/packing_test.go#L31
func RawEncode(typeNames []string, values []any) ([]byte, error) {
	if len(typeNames) != len(values) {
		return nil, fmt.Errorf("encoding mismatch: %d types, %d values", len(typeNames), len(values))
	}

	args, err := buildArguments(typeNames)
	if err != nil {
		return nil, err
	}

	return args.Pack(values...)
}

// RawDecode is the inverse of RawEncode.
func RawDecode(typeNames []string, data []byte) ([]any, error) {
	args, err := buildArguments(typeNames)
	if err != nil {
		return nil, err
	}

	return args.UnpackValues(data)
}

func buildArguments(typeNames []string) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(typeNames))
	for _, name := range typeNames {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			return nil, fmt.Errorf("invalid abi type %q: %w", name, err)
		}

		args = append(args, abi.Argument{Type: typ})
	}

	return args, nil
}

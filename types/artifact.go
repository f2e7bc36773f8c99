package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
)

// Artifact is a compiled contract descriptor: the creation bytecode and the
// parsed contract interface. It is treated as an opaque, immutable input by
// the deployment components.
type Artifact struct {
	ContractName string  `json:"contractName" validate:"required"`
	ABI          abi.ABI `json:"-" validate:"-"`
	Bytecode     []byte  `json:"-" validate:"required"`
}

// artifactJSON is the on-disk shape of a compiled artifact. The bytecode
// field is either a hex string (hardhat, truffle) or an object with an
// "object" hex string (foundry).
type artifactJSON struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// ParseArtifact parses a compiled contract artifact from JSON build output.
func ParseArtifact(data []byte) (Artifact, error) {
	var raw artifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Artifact{}, fmt.Errorf("unable to parse artifact: %w", err)
	}

	if len(raw.ABI) == 0 {
		return Artifact{}, errors.New("artifact has no abi field")
	}

	parsedABI, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return Artifact{}, fmt.Errorf("unable to parse artifact abi: %w", err)
	}

	bytecode, err := parseBytecode(raw.Bytecode)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		ContractName: raw.ContractName,
		ABI:          parsedABI,
		Bytecode:     bytecode,
	}, nil
}

// ParseArtifactFile parses a compiled contract artifact from a JSON file.
func ParseArtifactFile(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("unable to read artifact file %q: %w", path, err)
	}

	return ParseArtifact(data)
}

// MustArtifact panics if the artifact could not be parsed. Intended for test
// setup where a bad artifact should abort immediately.
func MustArtifact(a Artifact, err error) Artifact {
	if err != nil {
		panic(err)
	}

	return a
}

// Validate checks that the artifact carries everything a deployment needs.
func (a Artifact) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(a); err != nil {
		return err
	}

	return nil
}

func parseBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.New("artifact has no bytecode field")
	}

	// Hardhat and truffle emit the bytecode as a plain hex string.
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err == nil {
		return decodeBytecodeHex(hexStr)
	}

	// Foundry nests it under "object".
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Object != "" {
		return decodeBytecodeHex(obj.Object)
	}

	return nil, errors.New("unrecognized bytecode field format")
}

func decodeBytecodeHex(s string) ([]byte, error) {
	bytecode, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("unable to decode artifact bytecode: %w", err)
	}

	return bytecode, nil
}

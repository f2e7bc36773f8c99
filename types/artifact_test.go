package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hardhatArtifact = `{
	"contractName": "Counter",
	"abi": [
		{"type": "function", "name": "increment", "inputs": [], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "count", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"}
	],
	"bytecode": "0x60006000f3"
}`

const foundryArtifact = `{
	"contractName": "Counter",
	"abi": [
		{"type": "function", "name": "increment", "inputs": [], "outputs": [], "stateMutability": "nonpayable"}
	],
	"bytecode": {"object": "0x60006000f3"}
}`

func Test_ParseArtifact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		wantErr string
	}{
		{
			name: "success: hardhat shape",
			give: hardhatArtifact,
		},
		{
			name: "success: foundry shape",
			give: foundryArtifact,
		},
		{
			name:    "failure: not json",
			give:    `{]`,
			wantErr: "unable to parse artifact",
		},
		{
			name:    "failure: missing abi",
			give:    `{"contractName": "Counter", "bytecode": "0x60006000f3"}`,
			wantErr: "artifact has no abi field",
		},
		{
			name:    "failure: missing bytecode",
			give:    `{"contractName": "Counter", "abi": []}`,
			wantErr: "artifact has no bytecode field",
		},
		{
			name:    "failure: bytecode without 0x prefix",
			give:    `{"contractName": "Counter", "abi": [], "bytecode": "60006000f3"}`,
			wantErr: "unable to decode artifact bytecode",
		},
		{
			name:    "failure: bytecode in unknown shape",
			give:    `{"contractName": "Counter", "abi": [], "bytecode": {"raw": "0x60006000f3"}}`,
			wantErr: "unrecognized bytecode field format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			artifact, err := ParseArtifact([]byte(tt.give))

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Counter", artifact.ContractName)
			assert.Equal(t, common.FromHex("0x60006000f3"), artifact.Bytecode)
			assert.Contains(t, artifact.ABI.Methods, "increment")
			require.NoError(t, artifact.Validate())
		})
	}
}

func Test_Artifact_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		artifact Artifact
		wantErr  bool
	}{
		{
			name:     "success",
			artifact: Artifact{ContractName: "Counter", Bytecode: []byte{0x60, 0x00, 0x60, 0x00, 0xf3}},
		},
		{
			name:     "failure: missing contract name",
			artifact: Artifact{Bytecode: []byte{0x60}},
			wantErr:  true,
		},
		{
			name:     "failure: empty bytecode",
			artifact: Artifact{ContractName: "Counter"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.artifact.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_MustArtifact(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		MustArtifact(ParseArtifact([]byte(hardhatArtifact)))
	})
	assert.Panics(t, func() {
		MustArtifact(ParseArtifact([]byte(`{]`)))
	})
}

package upgradekit

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcDataError mimics go-ethereum's JSON-RPC errors that carry ABI-encoded
// revert data alongside the message.
type rpcDataError struct {
	msg  string
	data any
}

func (e *rpcDataError) Error() string {
	return e.msg
}

func (e *rpcDataError) ErrorData() any {
	return e.data
}

// packRevertData builds the standard Error(string) revert payload.
func packRevertData(t *testing.T, reason string) []byte {
	t.Helper()

	typ, err := abi.NewType("string", "", nil)
	require.NoError(t, err)

	packed, err := abi.Arguments{{Type: typ}}.Pack(reason)
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("Error(string)"))[:4]

	return append(selector, packed...)
}

func Test_RevertReason(t *testing.T) {
	t.Parallel()

	txHash := common.HexToHash("0x63d2e1f8ca84df36fb646ed3bd2f3e1e872d21a44b2b5bacbd9ad0ef9f3e9bd8")

	tests := []struct {
		name    string
		giveErr error
		want    string
		wantErr bool
	}{
		{
			name:    "operation does not fail: sentinel",
			giveErr: nil,
			want:    NoRevertSentinel,
		},
		{
			name:    "reason directly on the error",
			giveErr: &NodeRevertError{Reason: "INSUFFICIENT_BALANCE"},
			want:    "INSUFFICIENT_BALANCE",
		},
		{
			name:    "reason in sequence form",
			giveErr: &NodeRevertError{Reasons: []string{"OUT_OF_GAS", "ignored"}},
			want:    "OUT_OF_GAS",
		},
		{
			name: "reason nested in batch results",
			giveErr: &BatchRevertError{
				TxHashes: []common.Hash{txHash},
				Results:  map[common.Hash]TxResult{txHash: {Reason: "BAD_SIGNATURE"}},
			},
			want: "BAD_SIGNATURE",
		},
		{
			name:    "wrapped node error",
			giveErr: errors.Join(errors.New("call failed"), &NodeRevertError{Reason: "PAUSED"}),
			want:    "PAUSED",
		},
		{
			name:    "reason embedded in error string",
			giveErr: errors.New("execution reverted: revert: Ownable: caller is not the owner"),
			want:    "Ownable: caller is not the owner",
		},
		{
			name:    "no top-level reason and unknown hash: unrecognized",
			giveErr: &BatchRevertError{TxHashes: []common.Hash{txHash}, Results: map[common.Hash]TxResult{}},
			wantErr: true,
		},
		{
			name:    "unrecognized shape",
			giveErr: errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			op := func(context.Context) error { return tt.giveErr }

			got, err := RevertReason(t.Context(), op)

			if tt.wantErr {
				require.Error(t, err)

				var unrecognized *UnrecognizedRevertError
				require.ErrorAs(t, err, &unrecognized)
				assert.ErrorIs(t, err, tt.giveErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_RevertReason_dataError(t *testing.T) {
	t.Parallel()

	raw := packRevertData(t, "whoops")

	tests := []struct {
		name     string
		giveData any
	}{
		{
			name:     "data as hex string",
			giveData: hexutil.Encode(raw),
		},
		{
			name:     "data as hexutil bytes",
			giveData: hexutil.Bytes(raw),
		},
		{
			name:     "data as raw bytes",
			giveData: raw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			op := func(context.Context) error {
				return &rpcDataError{msg: "execution reverted", data: tt.giveData}
			}

			got, err := RevertReason(t.Context(), op)
			require.NoError(t, err)
			assert.Equal(t, "whoops", got)
		})
	}
}

func Test_ClassifyRevert(t *testing.T) {
	t.Parallel()

	txHash := common.HexToHash("0x01")

	tests := []struct {
		name    string
		giveErr error
		want    RevertCause
	}{
		{
			name:    "nil error",
			giveErr: nil,
			want:    RevertCause{Kind: RevertCauseNone, Reason: NoRevertSentinel},
		},
		{
			name:    "direct reason",
			giveErr: &NodeRevertError{Reason: "INSUFFICIENT_BALANCE"},
			want:    RevertCause{Kind: RevertCauseDirect, Reason: "INSUFFICIENT_BALANCE"},
		},
		{
			name:    "node error with no reason at all",
			giveErr: &NodeRevertError{},
			want:    RevertCause{Kind: RevertCauseUnrecognized},
		},
		{
			name: "batched reason",
			giveErr: &BatchRevertError{
				TxHashes: []common.Hash{txHash},
				Results:  map[common.Hash]TxResult{txHash: {Reason: "BAD_SIGNATURE"}},
			},
			want: RevertCause{Kind: RevertCauseBatched, Reason: "BAD_SIGNATURE"},
		},
		{
			name:    "batch error with no hashes",
			giveErr: &BatchRevertError{Results: map[common.Hash]TxResult{txHash: {Reason: "BAD_SIGNATURE"}}},
			want:    RevertCause{Kind: RevertCauseUnrecognized},
		},
		{
			name:    "plain reverted string without reason",
			giveErr: errors.New("execution reverted"),
			want:    RevertCause{Kind: RevertCauseUnrecognized},
		},
		{
			name:    "reverted string with plain reason",
			giveErr: errors.New("execution reverted: ALREADY_INITIALIZED"),
			want:    RevertCause{Kind: RevertCauseDirect, Reason: "ALREADY_INITIALIZED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ClassifyRevert(tt.giveErr)

			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(RevertCause{}, "Err")); diff != "" {
				t.Errorf("ClassifyRevert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

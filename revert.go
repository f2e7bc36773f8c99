package upgradekit

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NoRevertSentinel is returned when an operation expected to revert completed
// without failing. It is a sentinel for the missing revert, never a real
// on-chain reason, so tests can assert against it directly.
const NoRevertSentinel = "VM did not revert"

var (
	// hexPattern matches "0x" followed by one or more hex characters
	hexPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)
)

const (
	revertPrefix   = "revert:"
	revertedPrefix = "execution reverted"
)

// RevertCauseKind tags the recognized revert error shapes. Different
// execution backends and batched-call wrappers surface revert strings at
// different nesting depths; classification makes the shape explicit instead
// of leaving the lookup to fail midway.
type RevertCauseKind uint8

const (
	// RevertCauseNone means the operation did not fail.
	RevertCauseNone RevertCauseKind = iota
	// RevertCauseDirect means the reason was reported directly on the error.
	RevertCauseDirect
	// RevertCauseBatched means the reason was nested in a batch result set,
	// keyed by the first submitted transaction hash.
	RevertCauseBatched
	// RevertCauseUnrecognized means the error matched no known shape.
	RevertCauseUnrecognized
)

// RevertCause is the normalized form of a transaction execution failure.
type RevertCause struct {
	Kind   RevertCauseKind
	Reason string
	Err    error
}

// NodeRevertError is the shape produced by a node evaluating a single
// transaction: the revert reason sits directly on the error, either as one
// string or as a list whose first entry is the reason.
type NodeRevertError struct {
	Reason  string
	Reasons []string
	Err     error
}

func (e *NodeRevertError) Error() string {
	if reason, ok := e.firstReason(); ok {
		return "execution reverted: " + reason
	}

	return "execution reverted"
}

func (e *NodeRevertError) Unwrap() error {
	return e.Err
}

func (e *NodeRevertError) firstReason() (string, bool) {
	if e.Reason != "" {
		return e.Reason, true
	}
	if len(e.Reasons) > 0 {
		return e.Reasons[0], true
	}

	return "", false
}

// TxResult is the per-transaction outcome inside a batch error.
type TxResult struct {
	Reason string
}

// BatchRevertError is the shape produced by batched-call wrappers: outcomes
// are keyed by transaction hash, and the submission order is preserved in
// TxHashes. The reason for the first submitted transaction is the revert
// reason of the batch.
type BatchRevertError struct {
	TxHashes []common.Hash
	Results  map[common.Hash]TxResult
	Err      error
}

func (e *BatchRevertError) Error() string {
	if reason, ok := e.firstResultReason(); ok {
		return "batched execution reverted: " + reason
	}

	return "batched execution reverted"
}

func (e *BatchRevertError) Unwrap() error {
	return e.Err
}

func (e *BatchRevertError) firstResultReason() (string, bool) {
	if len(e.TxHashes) == 0 {
		return "", false
	}

	result, ok := e.Results[e.TxHashes[0]]
	if !ok || result.Reason == "" {
		return "", false
	}

	return result.Reason, true
}

// dataError is the shape of go-ethereum's JSON-RPC errors carrying
// ABI-encoded revert data (rpc.DataError).
type dataError interface {
	error
	ErrorData() any
}

// RevertReason runs an operation expected to revert and returns its reason
// text. If the operation completes without failing, the NoRevertSentinel is
// returned. If it fails with an error matching none of the recognized revert
// shapes, an *UnrecognizedRevertError is returned instead of a reason.
//
// There is no retry: a revert is a deterministic outcome of the submitted
// transaction.
func RevertReason(ctx context.Context, op func(context.Context) error) (string, error) {
	err := op(ctx)
	if err == nil {
		return NoRevertSentinel, nil
	}

	cause := ClassifyRevert(err)
	if cause.Kind == RevertCauseUnrecognized {
		return "", NewUnrecognizedRevertError(err)
	}

	return cause.Reason, nil
}

// ClassifyRevert normalizes a transaction execution error into a RevertCause.
// Recognized shapes, in order: a reason carried directly on the error
// (NodeRevertError), a reason nested in a batch result set (BatchRevertError),
// ABI-encoded revert data on a JSON-RPC error, and revert reasons embedded in
// the error string.
func ClassifyRevert(err error) RevertCause {
	if err == nil {
		return RevertCause{Kind: RevertCauseNone, Reason: NoRevertSentinel}
	}

	var nodeErr *NodeRevertError
	if errors.As(err, &nodeErr) {
		if reason, ok := nodeErr.firstReason(); ok {
			return RevertCause{Kind: RevertCauseDirect, Reason: reason, Err: err}
		}

		return RevertCause{Kind: RevertCauseUnrecognized, Err: err}
	}

	var batchErr *BatchRevertError
	if errors.As(err, &batchErr) {
		if reason, ok := batchErr.firstResultReason(); ok {
			return RevertCause{Kind: RevertCauseBatched, Reason: reason, Err: err}
		}

		return RevertCause{Kind: RevertCauseUnrecognized, Err: err}
	}

	var dataErr dataError
	if errors.As(err, &dataErr) {
		if reason := reasonFromErrorData(dataErr.ErrorData()); reason != "" {
			return RevertCause{Kind: RevertCauseDirect, Reason: reason, Err: err}
		}
	}

	if reason := reasonFromString(err.Error()); reason != "" {
		return RevertCause{Kind: RevertCauseDirect, Reason: reason, Err: err}
	}

	return RevertCause{Kind: RevertCauseUnrecognized, Err: err}
}

// reasonFromErrorData decodes ABI-encoded revert data attached to a JSON-RPC
// error. The data arrives as a hex string or raw bytes depending on the
// client.
func reasonFromErrorData(data any) string {
	var raw []byte
	switch v := data.(type) {
	case string:
		raw = common.FromHex(v)
	case hexutil.Bytes:
		raw = v
	case []byte:
		raw = v
	default:
		return ""
	}

	if len(raw) == 0 {
		return ""
	}

	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return ""
	}

	return reason
}

// reasonFromString extracts a revert reason embedded in an error string.
// Handles "revert: <reason>", "execution reverted: <reason>" and
// "execution reverted: 0x<abi-encoded data>".
func reasonFromString(errStr string) string {
	if idx := strings.Index(errStr, revertPrefix); idx != -1 {
		if reason := strings.TrimSpace(errStr[idx+len(revertPrefix):]); reason != "" {
			return reason
		}
	}

	idx := strings.Index(errStr, revertedPrefix)
	if idx == -1 {
		return ""
	}

	rest := strings.TrimSpace(errStr[idx+len(revertedPrefix):])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	if rest == "" {
		return ""
	}

	if hexStr := hexPattern.FindString(rest); hexStr != "" {
		if reason, err := abi.UnpackRevert(common.FromHex(hexStr)); err == nil {
			return reason
		}

		return ""
	}

	return rest
}

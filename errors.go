package upgradekit

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentError wraps any failure raised while deploying a single artifact:
// bad bytecode, gas exhaustion, constructor revert, or a node error.
type DeploymentError struct {
	Artifact string
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deploying contract %s: %v", e.Artifact, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

func NewDeploymentError(artifact string, err error) *DeploymentError {
	return &DeploymentError{Artifact: artifact, Err: err}
}

// InitializationError wraps a failure raised while encoding the init args,
// submitting the proxy's initialize call, or waiting for its confirmation.
type InitializationError struct {
	Proxy common.Address
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initializing proxy %s: %v", e.Proxy.Hex(), e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func NewInitializationError(proxy common.Address, err error) *InitializationError {
	return &InitializationError{Proxy: proxy, Err: err}
}

// UnrecognizedRevertError reports that an operation under test failed with an
// error that matched none of the known revert shapes, so no reason string
// could be produced.
type UnrecognizedRevertError struct {
	Err error
}

func (e *UnrecognizedRevertError) Error() string {
	return fmt.Sprintf("unrecognized revert error shape: %v", e.Err)
}

func (e *UnrecognizedRevertError) Unwrap() error {
	return e.Err
}

func NewUnrecognizedRevertError(err error) *UnrecognizedRevertError {
	return &UnrecognizedRevertError{Err: err}
}

package upgradekit

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// DeployedContract is a live handle to an on-chain contract: its address, the
// interface it is called through, and the signing identity that authorizes
// calls made through the handle. Immutable once created; there is no
// teardown, the handle's lifetime ends with the node's.
type DeployedContract struct {
	Address common.Address
	ABI     abi.ABI

	auth     *bind.TransactOpts
	backend  ContractDeployBackend
	bound    *bind.BoundContract
	gasLimit uint64
}

// NewDeployedContract binds an already deployed contract at addr to the given
// interface and signing identity.
func NewDeployedContract(
	addr common.Address, contractABI abi.ABI, auth *bind.TransactOpts, backend ContractDeployBackend, gasLimit uint64,
) *DeployedContract {
	return &DeployedContract{
		Address:  addr,
		ABI:      contractABI,
		auth:     auth,
		backend:  backend,
		bound:    bind.NewBoundContract(addr, contractABI, backend, backend, backend),
		gasLimit: gasLimit,
	}
}

// Call executes a read-only method and unpacks the outputs into results.
func (c *DeployedContract) Call(ctx context.Context, results *[]any, method string, params ...any) error {
	opts := &bind.CallOpts{Context: ctx, From: c.auth.From}

	return c.bound.Call(opts, results, method, params...)
}

// Transact submits a state-changing method call signed by the handle's
// identity and returns the pending transaction.
func (c *DeployedContract) Transact(ctx context.Context, method string, params ...any) (*gethtypes.Transaction, error) {
	opts := *c.auth
	opts.Context = ctx
	opts.GasLimit = c.gasLimit

	return c.bound.Transact(&opts, method, params...)
}

// TransactAndWait submits a state-changing method call and blocks until the
// transaction is mined, failing if it reverted.
func (c *DeployedContract) TransactAndWait(ctx context.Context, method string, params ...any) (*gethtypes.Receipt, error) {
	tx, err := c.Transact(ctx, method, params...)
	if err != nil {
		return nil, err
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return receipt, errors.New("transaction reverted")
	}

	return receipt, nil
}

// ProxyBinding is the result of a proxy/logic pair deployment: a handle at
// the proxy's address typed with the logic contract's interface, plus the
// logic contract's own address for callers that need to reference the
// implementation directly (e.g. upgrade tests). The two addresses are always
// distinct accounts.
type ProxyBinding struct {
	*DeployedContract

	LogicAddress common.Address
}

package upgradekit

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/upgradekit/upgradekit/types"
)

// DefaultDeployGasLimit is the upper gas bound applied to every deployment
// and initialization transaction. Deployments never estimate gas; the fixed
// bound keeps a runaway constructor from consuming a whole block.
const DefaultDeployGasLimit = uint64(6_000_000)

// Deployer deploys single compiled artifacts from a fixed signing identity
// under a bounded gas budget. Failures are logged with the artifact name and
// returned as a *DeploymentError; the caller decides whether to abort or keep
// collecting other failures.
type Deployer struct {
	client   ContractDeployBackend
	auth     *bind.TransactOpts
	gasLimit uint64
}

// NewDeployer creates a Deployer submitting through client as the identity in
// auth.
func NewDeployer(client ContractDeployBackend, auth *bind.TransactOpts) *Deployer {
	return &Deployer{
		client:   client,
		auth:     auth,
		gasLimit: DefaultDeployGasLimit,
	}
}

// WithGasLimit overrides the deployment gas bound.
func (d *Deployer) WithGasLimit(gasLimit uint64) *Deployer {
	d.gasLimit = gasLimit

	return d
}

// Deploy deploys the artifact with no constructor arguments and waits for
// the deployment transaction to be mined. Each call creates a fresh on-chain
// account; deployments are never deduplicated.
func (d *Deployer) Deploy(ctx context.Context, artifact types.Artifact) (*DeployedContract, error) {
	lggr := LoggerFrom(ctx)

	if err := artifact.Validate(); err != nil {
		lggr.Errorf("Error deploying contract %s: %v", artifact.ContractName, err)

		return nil, NewDeploymentError(artifact.ContractName, err)
	}

	opts := *d.auth
	opts.Context = ctx
	opts.GasLimit = d.gasLimit

	addr, tx, _, err := bind.DeployContract(&opts, artifact.ABI, artifact.Bytecode, d.client)
	if err != nil {
		lggr.Errorf("Error deploying contract %s: %v", artifact.ContractName, err)

		return nil, NewDeploymentError(artifact.ContractName, err)
	}

	receipt, err := bind.WaitMined(ctx, d.client, tx)
	if err != nil {
		lggr.Errorf("Error deploying contract %s: %v", artifact.ContractName, err)

		return nil, NewDeploymentError(artifact.ContractName, err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		err = errors.New("deployment transaction reverted")
		lggr.Errorf("Error deploying contract %s: %v", artifact.ContractName, err)

		return nil, NewDeploymentError(artifact.ContractName, err)
	}

	lggr.Infof("Deployed contract %s at %s", artifact.ContractName, addr.Hex())

	return NewDeployedContract(addr, artifact.ABI, d.auth, d.client, d.gasLimit), nil
}

package upgradekit

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/upgradekit/upgradekit/internal/utils/evmabi"
	"github.com/upgradekit/upgradekit/types"
)

// initializeMethod is the proxy's initialization entry point. It receives the
// logic contract's address and an opaque payload the proxy forwards to the
// logic contract on-chain. Initialization cannot run in the proxy's
// constructor because the logic address only exists after both deployments.
const initializeMethod = "initialize"

// ProxyDeployer deploys proxy/logic contract pairs and completes their
// initialization in one operation.
//
// No cleanup is attempted on failure: a half-completed deployment (proxy
// deployed, logic or initialize failing) leaves the earlier contracts live on
// the chain. Test chains are ephemeral per run, so orphans are harmless, but
// callers must not assume rollback.
type ProxyDeployer struct {
	client   ContractDeployBackend
	gasLimit uint64
}

// NewProxyDeployer creates a ProxyDeployer submitting through client.
func NewProxyDeployer(client ContractDeployBackend) *ProxyDeployer {
	return &ProxyDeployer{
		client:   client,
		gasLimit: DefaultDeployGasLimit,
	}
}

// WithGasLimit overrides the gas bound used for all three transactions.
func (p *ProxyDeployer) WithGasLimit(gasLimit uint64) *ProxyDeployer {
	p.gasLimit = gasLimit

	return p
}

// Deploy deploys the proxy artifact, then the logic artifact, raw-encodes the
// init args, invokes the proxy's initialize entry point with the logic
// address and the encoded payload, and waits for the initialization to be
// mined. The steps run strictly in sequence; each waits for the previous
// confirmation.
//
// The returned binding is addressed at the proxy but typed with the logic
// artifact's interface, so calls through it exercise the proxy's delegation.
func (p *ProxyDeployer) Deploy(
	ctx context.Context,
	auth *bind.TransactOpts,
	proxyArtifact types.Artifact,
	logicArtifact types.Artifact,
	initArgs types.InitArgs,
) (*ProxyBinding, error) {
	lggr := LoggerFrom(ctx)

	deployer := NewDeployer(p.client, auth).WithGasLimit(p.gasLimit)

	proxy, err := deployer.Deploy(ctx, proxyArtifact)
	if err != nil {
		lggr.Errorf("Error deploying proxy contract: %v", err)

		return nil, err
	}

	logic, err := deployer.Deploy(ctx, logicArtifact)
	if err != nil {
		lggr.Errorf("Error deploying proxy contract: %v", err)

		return nil, err
	}

	if err = initArgs.Validate(); err != nil {
		lggr.Errorf("Error deploying proxy contract: %v", err)

		return nil, NewInitializationError(proxy.Address, err)
	}

	payload, err := evmabi.RawEncode(initArgs.Types, initArgs.Values)
	if err != nil {
		lggr.Errorf("Error deploying proxy contract: %v", err)

		return nil, NewInitializationError(proxy.Address, err)
	}

	if _, err = proxy.TransactAndWait(ctx, initializeMethod, logic.Address, payload); err != nil {
		lggr.Errorf("Error deploying proxy contract: %v", err)

		return nil, NewInitializationError(proxy.Address, err)
	}

	lggr.Infof("Deployed proxy %s with logic contract %s", proxy.Address.Hex(), logic.Address.Hex())

	return &ProxyBinding{
		DeployedContract: NewDeployedContract(proxy.Address, logicArtifact.ABI, auth, p.client, p.gasLimit),
		LogicAddress:     logic.Address,
	}, nil
}

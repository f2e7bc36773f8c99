package upgradekit

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// ContractDeployBackend is the node-side contract every deployment component
// talks to: it can submit contract-creating and contract-calling transactions
// and look up their receipts. Both live nodes (ethclient.Client) and
// simulated backends satisfy it.
type ContractDeployBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

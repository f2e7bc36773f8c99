package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		rpcURL  string
		chainID uint64
	)

	cmd := cobra.Command{
		Use:   "upgradekit",
		Short: "Deploy contracts and proxy/logic pairs",
		Long:  `Deploys compiled contract artifacts, and proxy/logic contract pairs with on-chain initialization, against an EVM node.`,
	}

	cmd.PersistentFlags().StringVar(&rpcURL, "rpc", "http://localhost:8545", "JSON-RPC endpoint of the node to deploy to")
	cmd.PersistentFlags().Uint64Var(&chainID, "chain-id", 1337, "Chain ID of the node")

	cmd.AddCommand(newDeployCmd(&rpcURL, &chainID))
	cmd.AddCommand(newDeployProxyCmd(&rpcURL, &chainID))

	return &cmd
}

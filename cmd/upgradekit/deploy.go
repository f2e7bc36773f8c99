package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upgradekit/upgradekit"
	"github.com/upgradekit/upgradekit/types"
)

func newDeployCmd(rpcURL *string, chainID *uint64) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy <artifact.json>",
		Short: "Deploy a compiled contract artifact",
		Long:  `Configure a private key in a .env file (using the PRIVATE_KEY var) and deploy an artifact with it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := types.ParseArtifactFile(args[0])
			if err != nil {
				return err
			}

			client, auth, err := dialNode(*rpcURL, *chainID)
			if err != nil {
				return err
			}

			contract, err := upgradekit.NewDeployer(client, auth).Deploy(cmd.Context(), artifact)
			if err != nil {
				return err
			}

			fmt.Printf("Contract %s deployed at %s\n", artifact.ContractName, contract.Address.Hex())

			return nil
		},
	}
}

func newDeployProxyCmd(rpcURL *string, chainID *uint64) *cobra.Command {
	var (
		initTypes  []string
		initValues []string
	)

	cmd := &cobra.Command{
		Use:   "deploy-proxy <proxy.json> <logic.json>",
		Short: "Deploy a proxy/logic contract pair and initialize it",
		Long: `Deploys the proxy artifact, the logic artifact, and invokes the proxy's
initialize entry point with the logic address and the ABI-encoded init args.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proxyArtifact, err := types.ParseArtifactFile(args[0])
			if err != nil {
				return err
			}

			logicArtifact, err := types.ParseArtifactFile(args[1])
			if err != nil {
				return err
			}

			initArgs, err := parseInitArgs(initTypes, initValues)
			if err != nil {
				return err
			}

			client, auth, err := dialNode(*rpcURL, *chainID)
			if err != nil {
				return err
			}

			binding, err := upgradekit.NewProxyDeployer(client).
				Deploy(cmd.Context(), auth, proxyArtifact, logicArtifact, initArgs)
			if err != nil {
				return err
			}

			fmt.Printf("Proxy deployed at %s\n", binding.Address.Hex())
			fmt.Printf("Logic contract deployed at %s\n", binding.LogicAddress.Hex())

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&initTypes, "init-types", nil, "ABI type names of the initialize arguments, e.g. uint256,address")
	cmd.Flags().StringSliceVar(&initValues, "init-values", nil, "Values of the initialize arguments, parallel to --init-types")

	return cmd
}

// meshwallet is a small operator CLI over the wallet core:
// it generates mnemonics and derives the wallet's addresses
// for a chosen network.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeshJS/mesh-wallet-2/address"
	"github.com/MeshJS/mesh-wallet-2/mnemonic"
	"github.com/MeshJS/mesh-wallet-2/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "meshwallet",
		Short:         "Derive wallet credentials and addresses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newKeygenCmd())
	root.AddCommand(newAddressesCmd())
	return root
}

func newKeygenCmd() *cobra.Command {
	var strength int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new mnemonic sentence",
		RunE: func(cmd *cobra.Command, args []string) error {
			sentence, err := mnemonic.NewMnemonic(strength)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sentence)
			return nil
		},
	}

	cmd.Flags().IntVar(&strength, "strength", 256, "entropy strength in bits (128 or 256)")
	return cmd
}

func newAddressesCmd() *cobra.Command {
	var (
		sentence   string
		passphrase string
		network    string
	)

	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Derive the wallet's addresses from a mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := address.GetNetworkParams(network)
			if err != nil {
				return err
			}

			sm, err := mnemonic.NewSecretManager(sentence, passphrase)
			if err != nil {
				return err
			}

			manager, err := wallet.NewAddressManager(
				wallet.SecretManagerSource{SecretManager: sm},
				wallet.Config{NetworkID: net.ID},
			)
			if err != nil {
				return err
			}

			for _, typ := range []wallet.AddressType{wallet.Base, wallet.Enterprise, wallet.Reward} {
				req, err := manager.NextAddress(typ)
				if err != nil {
					return err
				}

				encoded, err := address.Encode(req)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", typ, encoded)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&sentence, "mnemonic", "", "mnemonic sentence (required)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "optional mnemonic passphrase")
	cmd.Flags().StringVar(&network, "network", address.NetMainnet, "target network (mainnet, preprod, preview)")
	_ = cmd.MarkFlagRequired("mnemonic")
	return cmd
}

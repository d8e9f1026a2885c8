package main

import (
	"github.com/spf13/cobra"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/keypair"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "manage keys",
	Args:  cobra.NoArgs,
}

var keyNewCmd = &cobra.Command{
	Use:   "new",
	Short: "create new key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, err := keypair.NewStellarPrivateKey()
		if err != nil {
			return err
		}

		return printKey(cmd, pk.String(), pk.PublicKey())
	},
}

var keyAddressCmd = &cobra.Command{
	Use:   "address <seed or public key>",
	Short: "print the address of the key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pk, err := keypair.ParseStellarPrivateKey(args[0]); err == nil {
			return printKey(cmd, pk.String(), pk.PublicKey())
		}

		pub, err := keypair.ParseStellarPublicKey(args[0])
		if err != nil {
			return err
		}

		return printKey(cmd, "", pub)
	},
}

func printKey(cmd *cobra.Command, seed string, pub keypair.PublicKey) error {
	address, err := account.NewAddress(pub)
	if err != nil {
		return err
	}

	m := map[string]interface{}{
		"public_key": pub.String(),
		"address":    address,
	}
	if len(seed) > 0 {
		m["seed"] = seed
	}

	return printJSON(cmd, m)
}

func init() {
	keyCmd.AddCommand(keyNewCmd)
	keyCmd.AddCommand(keyAddressCmd)
	rootCmd.AddCommand(keyCmd)
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/ledger"
)

var initCmd = &cobra.Command{
	Use:   "init <owner address>",
	Short: "initialize new ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := account.ParseAddress(args[0])
		if err != nil {
			return err
		}

		st, err := openStorage(true)
		if err != nil {
			return err
		}
		defer st.Close()

		l := newLedger(st)
		if err := l.Initialize(owner); err != nil {
			return err
		}

		return printJSON(cmd, map[string]interface{}{
			"owner":  owner,
			"height": l.Height(),
			"root":   l.Root(),
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "verify the journal and replay the invocations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger.Ledger) error {
			ctx := context.Background()
			if err := l.Journal().Verify(ctx); err != nil {
				return err
			}

			if _, err := l.Replay(ctx); err != nil {
				return err
			}

			return printJSON(cmd, map[string]interface{}{
				"verified": true,
				"height":   l.Height(),
				"root":     l.Root(),
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(verifyCmd)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/big"
	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
	"github.com/spikeekips/partivotes/storage/leveldbstorage"
)

func printFlags(cmd *cobra.Command, format string) interface{} {
	switch format {
	case "json":
		return printFlagsJSON(cmd)
	default:
		return printFlagsTerminal(cmd)
	}
}

func printFlagsJSON(cmd *cobra.Command) json.RawMessage {
	out := map[string]interface{}{}

	cmd.Flags().VisitAll(func(pf *pflag.Flag) {
		if pf.Name == "help" {
			return
		}

		out[fmt.Sprintf("--%s", pf.Name)] = map[string]interface{}{
			"default": pf.DefValue,
			"value":   pf.Value.String(),
		}
	})

	b, _ := json.Marshal(out)

	return b
}

func printFlagsTerminal(cmd *cobra.Command) string {
	var flags []string
	cmd.Flags().VisitAll(func(pf *pflag.Flag) {
		if pf.Name == "help" {
			return
		}

		flags = append(flags, fmt.Sprintf("--%s=%v (default: %v)", pf.Name, pf.Value, pf.DefValue))
	})

	return strings.Join(flags, ", ")
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return err
	}

	cmd.Println(out.String())

	return nil
}

// openStorage creates the new storage when create is true.
func openStorage(create bool) (*leveldbstorage.Storage, error) {
	if globalConfig.Storage.IsMemory() {
		log.Warn("storage path is empty; memory storage is used")

		return leveldbstorage.NewStorage(globalConfig.Storage)
	}

	if create {
		return leveldbstorage.NewStorage(globalConfig.Storage)
	}

	return leveldbstorage.OpenStorage(globalConfig.Storage)
}

func newLedger(st *leveldbstorage.Storage) *ledger.Ledger {
	l := ledger.NewLedger(ledger.NewJournal(st, nil)).
		SetRequireAuthentication(globalConfig.Ledger.RequireAuthentication)

	if globalConfig.Ledger.VerifyVoteSignature {
		l.SetVerifier(ledger.StellarVerifier{})
	}

	return l
}

// withLedger opens the existing ledger and runs f.
func withLedger(f func(*ledger.Ledger) error) error {
	st, err := openStorage(false)
	if err != nil {
		return err
	}

	defer func() {
		if err := st.Close(); err != nil {
			log.Error("failed to close storage", "error", err)
		}
	}()

	l := newLedger(st)
	if err := l.Open(); err != nil {
		return err
	}

	return f(l)
}

func loadKey() (keypair.StellarPrivateKey, error) {
	if len(flagKey) < 1 {
		return keypair.StellarPrivateKey{}, xerrors.Errorf("--key is required")
	}

	return keypair.ParseStellarPrivateKey(flagKey)
}

// invoke signs the invocation with --key and applies it to the ledger.
func invoke(cmd *cobra.Command, op poll.Operation, params interface{}) error {
	pk, err := loadKey()
	if err != nil {
		return err
	}

	iv, err := ledger.NewInvocation(op, "", big.NewBig(flagAmount), params)
	if err != nil {
		return err
	}

	iv, err = iv.Sign(pk)
	if err != nil {
		return err
	}

	return withLedger(func(l *ledger.Ledger) error {
		receipt, err := l.Invoke(iv)
		if err != nil {
			return err
		}

		return printJSON(cmd, receipt)
	})
}

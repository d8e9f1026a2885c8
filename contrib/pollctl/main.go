package main

import (
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/api"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/encode"
	"github.com/spikeekips/partivotes/hash"
	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
	"github.com/spikeekips/partivotes/storage/leveldbstorage"
)

var globalConfig Config = NewConfig()

var rootCmd = &cobra.Command{
	Use:   "pollctl",
	Short: "pollctl runs and queries the partivotes ledger",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}

		handler, err := common.LogHandler(common.LogFormatter(globalConfig.Log.Format), globalConfig.Log.Output)
		if err != nil {
			return err
		}
		handler = log15.CallerFileHandler(handler)

		lvl, _ := log15.LvlFromString(globalConfig.Log.Level)

		logs := []log15.Logger{
			log,
			account.Log(),
			api.Log(),
			common.Log(),
			encode.Log(),
			hash.Log(),
			keypair.Log(),
			ledger.Log(),
			leveldbstorage.Log(),
			poll.Log(),
		}
		for _, l := range logs {
			common.SetLogger(l, lvl, handler)
		}

		log.Debug("parsed flags", "flags", printFlags(cmd, globalConfig.Log.Format))
		log.Debug("config loaded", "config", globalConfig.Dump())

		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", flagConfig, "config file")
	rootCmd.PersistentFlags().Var(&flagLogLevel, "log-level", "log level: {debug error warn info crit}")
	rootCmd.PersistentFlags().Var(&flagLogFormat, "log-format", "log format: {json terminal}")
	rootCmd.PersistentFlags().StringVar(&flagLogOut, "log", flagLogOut, "log output file")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", flagStorage, "storage directory; empty is memory")
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}

	os.Exit(0)
}

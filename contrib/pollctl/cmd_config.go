package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(globalConfig)
		if err != nil {
			return err
		}

		fmt.Println(string(bytes.TrimSpace(b)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

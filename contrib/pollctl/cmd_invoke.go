package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
)

var (
	flagTitle       string
	flagDescription string
	flagOptions     []string
	flagExpiresIn   time.Duration
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "create new poll",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagExpiresIn <= 0 {
			return xerrors.Errorf("--expires-in should be positive")
		}

		return invoke(cmd, poll.OperationCreatePoll, poll.CreatePollParams{
			Title:       flagTitle,
			Description: flagDescription,
			Options:     flagOptions,
			ExpiresAt:   common.Millis(common.Now().Add(flagExpiresIn)),
		})
	},
}

var voteCmd = &cobra.Command{
	Use:   "vote <poll id> <option index>",
	Short: "cast the public vote signed by --key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, option, err := parseVoteArgs(args)
		if err != nil {
			return err
		}

		pk, err := loadKey()
		if err != nil {
			return err
		}

		sig, err := ledger.SignVote(pk, id, option)
		if err != nil {
			return err
		}

		return invoke(cmd, poll.OperationVoteWithSignature, poll.VoteWithSignatureParams{
			PollID:    id,
			Option:    option,
			Signature: sig,
		})
	},
}

var votePrivateCmd = &cobra.Command{
	Use:   "vote-private <poll id> <option index>",
	Short: "cast the private vote; --amount pays the fee",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, option, err := parseVoteArgs(args)
		if err != nil {
			return err
		}

		return invoke(cmd, poll.OperationVoteWithMPC, poll.VoteWithMPCParams{PollID: id, Option: option})
	},
}

var endCmd = &cobra.Command{
	Use:   "end <poll id>",
	Short: "end the poll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}

		return invoke(cmd, poll.OperationEndPoll, poll.PollIDParams{PollID: id})
	},
}

func parseVoteArgs(args []string) (uint64, uint32, error) {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, 0, xerrors.Errorf("invalid poll id; %q", args[0])
	}

	option, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return 0, 0, xerrors.Errorf("invalid option index; %q", args[1])
	}

	return id, uint32(option), nil
}

func init() {
	createCmd.Flags().StringVar(&flagTitle, "title", "", "title")
	createCmd.Flags().StringVar(&flagDescription, "description", "", "description")
	createCmd.Flags().StringArrayVar(&flagOptions, "option", nil, "option; repeat for each option")
	createCmd.Flags().DurationVar(&flagExpiresIn, "expires-in", time.Hour*24, "poll expires after")

	for _, c := range []*cobra.Command{createCmd, voteCmd, votePrivateCmd, endCmd} {
		c.Flags().StringVar(&flagKey, "key", "", "seed of the private key")
		c.Flags().Uint64Var(&flagAmount, "amount", 0, "attached amount")
		rootCmd.AddCommand(c)
	}
}

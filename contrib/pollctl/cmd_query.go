package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
)

var (
	flagCreator string
	flagStatus  string
)

func query(cmd *cobra.Command, op poll.Operation, sender account.Address, params interface{}) error {
	return withLedger(func(l *ledger.Ledger) error {
		receipt, err := l.Query(op, sender, params)
		if err != nil {
			return err
		}

		b, err := poll.MarshalEvents(receipt.Events)
		if err != nil {
			return err
		}

		return printJSON(cmd, json.RawMessage(b))
	})
}

func parsePollID(s string) (poll.PollIDParams, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return poll.PollIDParams{}, poll.ValidationError.Newf("invalid poll id; %q", s)
	}

	return poll.PollIDParams{PollID: id}, nil
}

var pollsCmd = &cobra.Command{
	Use:   "polls",
	Short: "list polls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var params poll.GetPollsParams

		if len(flagCreator) > 0 {
			creator, err := account.ParseAddress(flagCreator)
			if err != nil {
				return err
			}
			params.Creator = creator
		}

		status, err := poll.ParseStatus(flagStatus)
		if err != nil {
			return err
		}
		params.Status = status

		return query(cmd, poll.OperationGetPolls, "", params)
	},
}

var pollCmd = &cobra.Command{
	Use:   "poll <poll id>",
	Short: "print the poll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parsePollID(args[0])
		if err != nil {
			return err
		}

		return query(cmd, poll.OperationGetPoll, "", params)
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results <poll id>",
	Short: "print the public and private tallies of the poll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parsePollID(args[0])
		if err != nil {
			return err
		}

		return query(cmd, poll.OperationGetPollResults, "", params)
	},
}

var hasVotedCmd = &cobra.Command{
	Use:   "has-voted <poll id> <address>",
	Short: "check whether the address voted in the poll",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parsePollID(args[0])
		if err != nil {
			return err
		}

		voter, err := account.ParseAddress(args[1])
		if err != nil {
			return err
		}

		return query(cmd, poll.OperationHasVoted, voter, params)
	},
}

func init() {
	pollsCmd.Flags().StringVar(&flagCreator, "creator", "", "filter by creator address")
	pollsCmd.Flags().StringVar(&flagStatus, "status", "", "filter by status: {active expired ended}")

	rootCmd.AddCommand(pollsCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(hasVotedCmd)
}

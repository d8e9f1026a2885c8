package poll

import (
	"encoding/json"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/keypair"
)

// Event is the outbound notification of an operation.
type Event interface {
	Event() string
}

// MarshalEvents renders events as the list of {"event", "body"}.
func MarshalEvents(events []Event) ([]byte, error) {
	l := make([]map[string]interface{}, len(events))
	for i, e := range events {
		l[i] = map[string]interface{}{
			"event": e.Event(),
			"body":  e,
		}
	}

	return json.Marshal(l)
}

type PollCreated struct {
	PollID  uint64          `json:"poll_id"`
	Creator account.Address `json:"creator"`
	Title   string          `json:"title"`
}

func (PollCreated) Event() string { return "PollCreated" }

// PublicVoteCast carries the signature as it was given; it is not verified.
type PublicVoteCast struct {
	PollID    uint64            `json:"poll_id"`
	Voter     account.Address   `json:"voter"`
	Option    uint32            `json:"option_index"`
	Signature keypair.Signature `json:"signature,omitempty"`
}

func (PublicVoteCast) Event() string { return "PublicVoteCast" }

// PrivateVoteCast never carries the chosen option.
type PrivateVoteCast struct {
	PollID uint64          `json:"poll_id"`
	Voter  account.Address `json:"voter"`
}

func (PrivateVoteCast) Event() string { return "PrivateVoteCast" }

type PollEnded struct {
	PollID  uint64          `json:"poll_id"`
	EndedBy account.Address `json:"ended_by"`
}

func (PollEnded) Event() string { return "PollEnded" }

type PollsList struct {
	Polls []Poll `json:"polls"`
}

func (PollsList) Event() string { return "PollsList" }

type PollDetails struct {
	Poll Poll `json:"poll"`
}

func (PollDetails) Event() string { return "PollDetails" }

type PollResults struct {
	PollID  uint64 `json:"poll_id"`
	Public  Tally  `json:"public_tally"`
	Private Tally  `json:"private_tally"`
}

func (PollResults) Event() string { return "PollResults" }

// Totals is the public and private counts combined per option.
func (r PollResults) Totals() Tally {
	n := len(r.Public)
	if len(r.Private) > n {
		n = len(r.Private)
	}

	t := NewTally(n)
	for i := range t {
		if i < len(r.Public) {
			t[i] += r.Public[i]
		}
		if i < len(r.Private) {
			t[i] += r.Private[i]
		}
	}

	return t
}

// Winners returns the option indices with the highest combined count. Every
// tied option is returned; no votes means no winner.
func (r PollResults) Winners() []uint32 {
	totals := r.Totals()

	var top uint64
	for _, c := range totals {
		if c > top {
			top = c
		}
	}

	if top < 1 {
		return nil
	}

	var winners []uint32
	for i, c := range totals {
		if c == top {
			winners = append(winners, uint32(i))
		}
	}

	return winners
}

type HasVotedResult struct {
	PollID uint64          `json:"poll_id"`
	User   account.Address `json:"user"`
	Voted  bool            `json:"has_voted"`
}

func (HasVotedResult) Event() string { return "HasVoted" }

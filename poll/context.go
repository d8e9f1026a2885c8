package poll

import (
	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/big"
	"github.com/spikeekips/partivotes/keypair"
)

var (
	CreatePollFee  big.Big = big.NewBig(100)
	PrivateVoteFee big.Big = big.NewBig(100)
)

// Context is the already authenticated input of an invocation. Now is unix
// milliseconds.
type Context struct {
	Sender account.Address
	Amount big.Big
	Now    uint64
}

func (c Context) paid(fee big.Big) bool {
	return c.Amount.Cmp(fee) >= 0
}

type CreatePollParams struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	ExpiresAt   uint64   `json:"expires_at"`
}

type VoteWithSignatureParams struct {
	PollID    uint64            `json:"poll_id"`
	Option    uint32            `json:"option_index"`
	Signature keypair.Signature `json:"signature,omitempty"`
}

type VoteWithMPCParams struct {
	PollID uint64 `json:"poll_id"`
	Option uint32 `json:"option_index"`
}

// PollIDParams is the parameter of the operations which only need the
// poll id.
type PollIDParams struct {
	PollID uint64 `json:"poll_id"`
}

// GetPollsParams filters the polls; the zero value matches every poll.
type GetPollsParams struct {
	Creator account.Address `json:"creator,omitempty"`
	Status  Status          `json:"status,omitempty"`
}

func (p GetPollsParams) match(poll Poll, now uint64) bool {
	if !p.Creator.Empty() && !p.Creator.Equal(poll.Creator) {
		return false
	}

	if len(p.Status) > 0 && poll.Status(now) != p.Status {
		return false
	}

	return true
}

package poll

import (
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/hash"
)

var (
	StateHashHint string         = "state"
	StateVersion  common.Version = common.MustParseVersion("0.1.0")
)

// State is the whole poll state. Operations never modify the given State;
// they return the new one.
type State struct {
	owner    account.Address
	registry registry
	receipts receiptLedger
	private  privateTallies
}

// Initialize creates the empty state owned by owner.
func Initialize(owner account.Address) (State, error) {
	if err := owner.IsValid(); err != nil {
		return State{}, ValidationError.New(err)
	}

	return State{
		owner:    owner,
		registry: newRegistry(),
		receipts: newReceiptLedger(),
		private:  newPrivateTallies(),
	}, nil
}

func (s State) IsEmpty() bool {
	return s.registry.tree == nil
}

func (s State) clone() State {
	return State{
		owner:    s.owner,
		registry: s.registry.clone(),
		receipts: s.receipts.clone(),
		private:  s.private.clone(),
	}
}

func (s State) Owner() account.Address {
	return s.owner
}

// Counter is the id of the next poll.
func (s State) Counter() uint64 {
	return s.registry.counter
}

func (s State) Poll(id uint64) (Poll, error) {
	if s.IsEmpty() {
		return Poll{}, NotFoundError.Newf("poll_id=%d", id)
	}

	p, err := s.registry.get(id)
	if err != nil {
		return Poll{}, err
	}

	return p.copy(), nil
}

func (s State) Polls() []Poll {
	if s.IsEmpty() {
		return nil
	}

	polls := make([]Poll, 0, s.registry.len())
	s.registry.each(func(p Poll) bool {
		polls = append(polls, p.copy())
		return true
	})

	return polls
}

func (s State) HasVoted(pollID uint64, voter account.Address) bool {
	if s.IsEmpty() {
		return false
	}

	return s.receipts.hasVoted(pollID, voter)
}

func (s State) Receipt(pollID uint64, voter account.Address) (Receipt, bool) {
	if s.IsEmpty() {
		return nil, false
	}

	return s.receipts.get(pollID, voter)
}

// Voters returns the voters of the poll with their receipts.
func (s State) Voters(pollID uint64) map[account.Address]Receipt {
	m := map[account.Address]Receipt{}
	if s.IsEmpty() {
		return m
	}

	s.receipts.eachInPoll(pollID, func(i receiptEntry) bool {
		m[i.Voter] = i.Receipt
		return true
	})

	return m
}

func (s State) PrivateTally(pollID uint64) (Tally, bool) {
	if s.IsEmpty() {
		return nil, false
	}

	t, found := s.private.get(pollID)
	if !found {
		return nil, false
	}

	return t.Copy(), true
}

// IsValid checks the invariants over every poll, receipt and tally.
func (s State) IsValid() error {
	if s.IsEmpty() {
		return ValidationError.Newf("state is not initialized")
	}

	if err := s.owner.IsValid(); err != nil {
		return ValidationError.New(err)
	}

	var err error
	s.registry.each(func(p Poll) bool {
		if p.ID >= s.registry.counter {
			err = ValidationError.Newf("poll id is not less than counter; poll_id=%d counter=%d", p.ID, s.registry.counter)
			return false
		}

		if err = p.IsValid(); err != nil {
			return false
		}

		if c := s.receipts.count(p.ID, PublicReceiptKind); c != p.PublicVoteCounts.Sum() {
			err = ValidationError.Newf(
				"public tally does not match with public receipts; poll_id=%d tally=%d receipts=%d",
				p.ID, p.PublicVoteCounts.Sum(), c,
			)
			return false
		}

		var sum uint64
		if t, found := s.private.get(p.ID); found {
			if len(t) != len(p.Options) {
				err = ValidationError.Newf(
					"private tally should have one entry per option; poll_id=%d options=%d counts=%d",
					p.ID, len(p.Options), len(t),
				)
				return false
			}
			sum = t.Sum()
		}

		if c := s.receipts.count(p.ID, PrivateReceiptKind); c != sum {
			err = ValidationError.Newf(
				"private tally does not match with private receipts; poll_id=%d tally=%d receipts=%d",
				p.ID, sum, c,
			)
			return false
		}

		return true
	})
	if err != nil {
		return err
	}

	s.receipts.each(func(i receiptEntry) bool {
		p, e := s.registry.get(i.PollID)
		if e != nil {
			err = ValidationError.Newf("receipt of unknown poll; poll_id=%d voter=%s", i.PollID, i.Voter)
			return false
		}

		if r, ok := i.Receipt.(PublicReceipt); ok && int(r.Option) >= len(p.Options) {
			err = ValidationError.Newf("receipt has invalid option; poll_id=%d voter=%s", i.PollID, i.Voter)
			return false
		}

		return true
	})

	return err
}

// Root is the hash of the canonical encoding of the state.
func (s State) Root() (hash.Hash, error) {
	b, err := s.MarshalBinary()
	if err != nil {
		return hash.Hash{}, err
	}

	return hash.DefaultHashes.NewHashByType(hash.DoubleSHA256HashType, StateHashHint, b)
}

func (s State) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return json.Marshal(nil)
	}

	private := map[string]Tally{}
	s.private.each(func(i privateTally) bool {
		private[strconv.FormatUint(i.PollID, 10)] = i.Tally
		return true
	})

	return json.Marshal(map[string]interface{}{
		"owner":           s.owner,
		"counter":         s.Counter(),
		"polls":           s.Polls(),
		"private_tallies": private,
	})
}

type pollRLP struct {
	ID               uint64
	Creator          string
	Title            string
	Description      string
	Options          []string
	CreatedAt        uint64
	ExpiresAt        uint64
	Active           uint8
	PublicVoteCounts []uint64
}

type receiptRLP struct {
	PollID uint64
	Voter  string
	Kind   uint8
	Option []uint32 // empty for private receipt
}

type privateTallyRLP struct {
	PollID uint64
	Tally  []uint64
}

type stateRLP struct {
	Version  string
	Owner    string
	Counter  uint64
	Polls    []pollRLP
	Receipts []receiptRLP
	Private  []privateTallyRLP
}

// MarshalBinary encodes the state in rlp; every container is written in
// ascending key order, so the same state always gives the same bytes.
func (s State) MarshalBinary() ([]byte, error) {
	if s.IsEmpty() {
		return nil, ValidationError.Newf("state is not initialized")
	}

	r := stateRLP{
		Version:  StateVersion.String(),
		Owner:    s.owner.String(),
		Counter:  s.registry.counter,
		Polls:    []pollRLP{},
		Receipts: []receiptRLP{},
		Private:  []privateTallyRLP{},
	}

	s.registry.each(func(p Poll) bool {
		var active uint8
		if p.Active {
			active = 1
		}

		r.Polls = append(r.Polls, pollRLP{
			ID:               p.ID,
			Creator:          p.Creator.String(),
			Title:            p.Title,
			Description:      p.Description,
			Options:          p.Options,
			CreatedAt:        p.CreatedAt,
			ExpiresAt:        p.ExpiresAt,
			Active:           active,
			PublicVoteCounts: []uint64(p.PublicVoteCounts),
		})

		return true
	})

	s.receipts.each(func(i receiptEntry) bool {
		e := receiptRLP{PollID: i.PollID, Voter: i.Voter.String(), Kind: uint8(i.Receipt.Kind()), Option: []uint32{}}
		if p, ok := i.Receipt.(PublicReceipt); ok {
			e.Option = []uint32{p.Option}
		}
		r.Receipts = append(r.Receipts, e)

		return true
	})

	s.private.each(func(i privateTally) bool {
		r.Private = append(r.Private, privateTallyRLP{PollID: i.PollID, Tally: []uint64(i.Tally)})
		return true
	})

	return rlp.EncodeToBytes(r)
}

func (s *State) UnmarshalBinary(b []byte) error {
	var r stateRLP
	if err := rlp.DecodeBytes(b, &r); err != nil {
		return ValidationError.New(err)
	}

	v, err := common.NewVersion(r.Version)
	if err != nil {
		return ValidationError.New(err)
	} else if !StateVersion.Compatible(v) {
		return ValidationError.Newf("incompatible state version; %q", r.Version)
	}

	n, err := Initialize(account.Address(r.Owner))
	if err != nil {
		return err
	}

	n.registry.counter = r.Counter

	for _, p := range r.Polls {
		n.registry.tree.ReplaceOrInsert(Poll{
			ID:               p.ID,
			Creator:          account.Address(p.Creator),
			Title:            p.Title,
			Description:      p.Description,
			Options:          p.Options,
			CreatedAt:        p.CreatedAt,
			ExpiresAt:        p.ExpiresAt,
			Active:           p.Active == 1,
			PublicVoteCounts: Tally(p.PublicVoteCounts),
		})
	}

	for _, e := range r.Receipts {
		var receipt Receipt
		switch ReceiptKind(e.Kind) {
		case PublicReceiptKind:
			if len(e.Option) != 1 {
				return ValidationError.Newf("public receipt without option; poll_id=%d voter=%s", e.PollID, e.Voter)
			}
			receipt = PublicReceipt{Option: e.Option[0]}
		case PrivateReceiptKind:
			if len(e.Option) != 0 {
				return ValidationError.Newf("private receipt with option; poll_id=%d voter=%s", e.PollID, e.Voter)
			}
			receipt = PrivateReceipt{}
		default:
			return ValidationError.Newf("unknown receipt kind; kind=%d", e.Kind)
		}

		if err := n.receipts.record(e.PollID, account.Address(e.Voter), receipt); err != nil {
			return err
		}
	}

	for _, t := range r.Private {
		n.private.tree.ReplaceOrInsert(privateTally{PollID: t.PollID, Tally: Tally(t.Tally)})
	}

	if err := n.IsValid(); err != nil {
		return err
	}

	*s = n

	return nil
}

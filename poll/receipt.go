package poll

import (
	"encoding/json"

	"github.com/google/btree"

	"github.com/spikeekips/partivotes/account"
)

type ReceiptKind uint8

const (
	_ ReceiptKind = iota
	PublicReceiptKind
	PrivateReceiptKind
)

func (k ReceiptKind) String() string {
	switch k {
	case PublicReceiptKind:
		return "public"
	case PrivateReceiptKind:
		return "private"
	default:
		return "unknown"
	}
}

func (k ReceiptKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Receipt is the record that a voter voted in a poll. Only the public
// receipt carries the chosen option.
type Receipt interface {
	Kind() ReceiptKind
}

type PublicReceipt struct {
	Option uint32
}

func (r PublicReceipt) Kind() ReceiptKind {
	return PublicReceiptKind
}

func (r PublicReceipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"kind":   r.Kind(),
		"option": r.Option,
	})
}

type PrivateReceipt struct{}

func (r PrivateReceipt) Kind() ReceiptKind {
	return PrivateReceiptKind
}

func (r PrivateReceipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"kind": r.Kind(),
	})
}

type receiptEntry struct {
	PollID  uint64
	Voter   account.Address
	Receipt Receipt
}

func receiptLess(a, b receiptEntry) bool {
	if a.PollID != b.PollID {
		return a.PollID < b.PollID
	}

	return a.Voter < b.Voter
}

// receiptLedger keeps at most one receipt by poll id and voter.
type receiptLedger struct {
	tree *btree.BTreeG[receiptEntry]
}

func newReceiptLedger() receiptLedger {
	return receiptLedger{tree: btree.NewG(btreeDegree, receiptLess)}
}

func (l receiptLedger) clone() receiptLedger {
	return receiptLedger{tree: l.tree.Clone()}
}

func (l receiptLedger) hasVoted(pollID uint64, voter account.Address) bool {
	return l.tree.Has(receiptEntry{PollID: pollID, Voter: voter})
}

func (l receiptLedger) get(pollID uint64, voter account.Address) (Receipt, bool) {
	i, found := l.tree.Get(receiptEntry{PollID: pollID, Voter: voter})
	if !found {
		return nil, false
	}

	return i.Receipt, true
}

func (l receiptLedger) record(pollID uint64, voter account.Address, receipt Receipt) error {
	if l.hasVoted(pollID, voter) {
		return AlreadyVotedError.Newf("poll_id=%d voter=%s", pollID, voter)
	}

	l.tree.ReplaceOrInsert(receiptEntry{PollID: pollID, Voter: voter, Receipt: receipt})

	return nil
}

// eachInPoll iterates the receipts of the poll in voter order.
func (l receiptLedger) eachInPoll(pollID uint64, f func(receiptEntry) bool) {
	l.tree.AscendGreaterOrEqual(receiptEntry{PollID: pollID}, func(i receiptEntry) bool {
		if i.PollID != pollID {
			return false
		}

		return f(i)
	})
}

func (l receiptLedger) count(pollID uint64, kind ReceiptKind) uint64 {
	var c uint64
	l.eachInPoll(pollID, func(i receiptEntry) bool {
		if i.Receipt.Kind() == kind {
			c++
		}

		return true
	})

	return c
}

func (l receiptLedger) each(f func(receiptEntry) bool) {
	l.tree.Ascend(func(i receiptEntry) bool {
		return f(i)
	})
}

package ledger

import (
	"time"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/big"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/poll"
	"github.com/spikeekips/partivotes/storage/leveldbstorage"
)

const testNow uint64 = 1555400000000

type testClock struct {
	now uint64
}

func (c *testClock) Now() time.Time {
	return common.FromMillis(c.now)
}

func newTestKey() (keypair.StellarPrivateKey, account.Address) {
	pk, err := keypair.NewStellarPrivateKey()
	if err != nil {
		panic(err)
	}

	a, err := account.NewAddress(pk.PublicKey())
	if err != nil {
		panic(err)
	}

	return pk, a
}

func newTestLedger(owner account.Address, clock *testClock) (*Ledger, *leveldbstorage.Storage) {
	st, err := leveldbstorage.NewStorage(leveldbstorage.Config{})
	if err != nil {
		panic(err)
	}

	l := NewLedger(NewJournal(st, nil)).SetClock(clock.Now)
	if err := l.Initialize(owner); err != nil {
		panic(err)
	}

	return l, st
}

func newTestInvocation(op poll.Operation, sender account.Address, amount uint64, params interface{}) Invocation {
	iv, err := NewInvocation(op, sender, big.NewBig(amount), params)
	if err != nil {
		panic(err)
	}

	return iv
}

func newTestCreatePoll(sender account.Address) Invocation {
	return newTestInvocation(poll.OperationCreatePoll, sender, 100, poll.CreatePollParams{
		Title:       "Lunch",
		Description: "What do we eat today?",
		Options:     []string{"Yes", "No"},
		ExpiresAt:   testNow + 1000,
	})
}

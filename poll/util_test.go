package poll

import (
	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/big"
	"github.com/spikeekips/partivotes/keypair"
)

const testNow uint64 = 1555400000000

func newTestAddress() account.Address {
	pr, err := keypair.NewStellarPrivateKey()
	if err != nil {
		panic(err)
	}

	a, err := account.NewAddress(pr.PublicKey())
	if err != nil {
		panic(err)
	}

	return a
}

func newTestContext(sender account.Address, amount uint64, now uint64) Context {
	return Context{Sender: sender, Amount: big.NewBig(amount), Now: now}
}

func newTestPollParams() CreatePollParams {
	return CreatePollParams{
		Title:       "Lunch",
		Description: "What do we eat today?",
		Options:     []string{"Yes", "No"},
		ExpiresAt:   testNow + 1000,
	}
}

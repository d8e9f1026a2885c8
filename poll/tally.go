package poll

import (
	"github.com/google/btree"
)

// Tally is the per option count, indexed by option index.
type Tally []uint64

func NewTally(numOptions int) Tally {
	return make(Tally, numOptions)
}

// Inc returns the new Tally with the count of option incremented; t is
// not modified.
func (t Tally) Inc(option uint32) Tally {
	n := len(t)
	if int(option) >= n {
		n = int(option) + 1
	}

	c := make(Tally, n)
	copy(c, t)
	c[option]++

	return c
}

func (t Tally) Sum() uint64 {
	var s uint64
	for _, c := range t {
		s += c
	}

	return s
}

func (t Tally) Copy() Tally {
	if t == nil {
		return nil
	}

	c := make(Tally, len(t))
	copy(c, t)

	return c
}

func (t Tally) Equal(b Tally) bool {
	if len(t) != len(b) {
		return false
	}

	for i := range t {
		if t[i] != b[i] {
			return false
		}
	}

	return true
}

type privateTally struct {
	PollID uint64
	Tally  Tally
}

// privateTallies keeps the private counts by poll id, apart from any voter.
type privateTallies struct {
	tree *btree.BTreeG[privateTally]
}

func newPrivateTallies() privateTallies {
	return privateTallies{
		tree: btree.NewG(btreeDegree, func(a, b privateTally) bool {
			return a.PollID < b.PollID
		}),
	}
}

func (p privateTallies) clone() privateTallies {
	return privateTallies{tree: p.tree.Clone()}
}

func (p privateTallies) get(pollID uint64) (Tally, bool) {
	i, found := p.tree.Get(privateTally{PollID: pollID})
	if !found {
		return nil, false
	}

	return i.Tally, true
}

func (p privateTallies) reset(pollID uint64, numOptions int) {
	p.tree.ReplaceOrInsert(privateTally{PollID: pollID, Tally: NewTally(numOptions)})
}

func (p privateTallies) increment(pollID uint64, option uint32, numOptions int) {
	t, found := p.get(pollID)
	if !found {
		t = NewTally(numOptions)
	}

	p.tree.ReplaceOrInsert(privateTally{PollID: pollID, Tally: t.Inc(option)})
}

func (p privateTallies) each(f func(privateTally) bool) {
	p.tree.Ascend(func(i privateTally) bool {
		return f(i)
	})
}

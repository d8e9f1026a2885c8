package poll

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/account"
)

type testQuery struct {
	suite.Suite
	owner account.Address
	alice account.Address
	bob   account.Address
	st    State
}

func (t *testQuery) SetupSuite() {
	t.owner = newTestAddress()
	t.alice = newTestAddress()
	t.bob = newTestAddress()
}

// SetupTest makes 3 polls: 0 by alice, ended; 1 by bob, expires at
// testNow+100; 2 by alice, expires at testNow+1000.
func (t *testQuery) SetupTest() {
	st, err := Initialize(t.owner)
	t.NoError(err)

	create := func(creator account.Address, expiresAt uint64) {
		params := newTestPollParams()
		params.Options = []string{"a", "b", "c"}
		params.ExpiresAt = expiresAt

		st, _, err = CreatePoll(st, newTestContext(creator, 100, testNow), params)
		t.NoError(err)
	}

	create(t.alice, testNow+1000)
	create(t.bob, testNow+100)
	create(t.alice, testNow+1000)

	st, _, err = EndPoll(st, newTestContext(t.alice, 0, testNow+1), PollIDParams{PollID: 0})
	t.NoError(err)

	t.st = st
}

func (t *testQuery) ids(events []Event) []uint64 {
	t.Len(events, 1)

	ids := []uint64{}
	for _, p := range events[0].(PollsList).Polls {
		ids = append(ids, p.ID)
	}

	return ids
}

func (t *testQuery) TestGetPolls() {
	events, err := GetPolls(t.st, newTestContext(t.bob, 0, testNow+10), GetPollsParams{})
	t.NoError(err)
	t.Equal([]uint64{0, 1, 2}, t.ids(events))
}

func (t *testQuery) TestGetPollsFilter() {
	cases := []struct {
		name     string
		now      uint64
		params   GetPollsParams
		expected []uint64
	}{
		{name: "creator", now: testNow + 10, params: GetPollsParams{Creator: t.alice}, expected: []uint64{0, 2}},
		{name: "active", now: testNow + 10, params: GetPollsParams{Status: StatusActive}, expected: []uint64{1, 2}},
		{name: "active after expiry", now: testNow + 100, params: GetPollsParams{Status: StatusActive}, expected: []uint64{2}},
		{name: "expired", now: testNow + 100, params: GetPollsParams{Status: StatusExpired}, expected: []uint64{1}},
		{name: "ended", now: testNow + 10, params: GetPollsParams{Status: StatusEnded}, expected: []uint64{0}},
		{
			name:     "creator and status",
			now:      testNow + 10,
			params:   GetPollsParams{Creator: t.alice, Status: StatusActive},
			expected: []uint64{2},
		},
		{name: "nothing", now: testNow + 10, params: GetPollsParams{Creator: t.owner}, expected: []uint64{}},
	}

	for i, c := range cases {
		events, err := GetPolls(t.st, newTestContext(t.bob, 0, c.now), c.params)
		t.NoError(err, "%d: %v", i, c.name)
		t.Equal(c.expected, t.ids(events), "%d: %v", i, c.name)
	}

	_, err := GetPolls(t.st, newTestContext(t.bob, 0, testNow), GetPollsParams{Status: "closed"})
	t.True(xerrors.Is(err, ValidationError))
}

func (t *testQuery) TestGetPoll() {
	events, err := GetPoll(t.st, newTestContext(t.bob, 0, testNow), PollIDParams{PollID: 1})
	t.NoError(err)
	t.Len(events, 1)

	p := events[0].(PollDetails).Poll
	t.Equal(uint64(1), p.ID)
	t.Equal(t.bob, p.Creator)
	t.Equal(Tally{0, 0, 0}, p.PublicVoteCounts)

	_, err = GetPoll(t.st, newTestContext(t.bob, 0, testNow), PollIDParams{PollID: 3})
	t.True(xerrors.Is(err, NotFoundError))
}

func (t *testQuery) TestGetPollResults() {
	st := t.st

	var err error
	st, _, err = VoteWithSignature(st, newTestContext(t.bob, 0, testNow+2), VoteWithSignatureParams{PollID: 2, Option: 2})
	t.NoError(err)
	st, _, err = VoteWithMPC(st, newTestContext(t.alice, 100, testNow+2), VoteWithMPCParams{PollID: 2, Option: 0})
	t.NoError(err)
	st, _, err = VoteWithMPC(st, newTestContext(t.owner, 100, testNow+2), VoteWithMPCParams{PollID: 2, Option: 2})
	t.NoError(err)

	events, err := GetPollResults(st, newTestContext(t.bob, 0, testNow+3), PollIDParams{PollID: 2})
	t.NoError(err)

	results := events[0].(PollResults)
	t.Equal(uint64(2), results.PollID)
	t.Equal(Tally{0, 0, 1}, results.Public)
	t.Equal(Tally{1, 0, 1}, results.Private)
	t.Equal(Tally{1, 0, 2}, results.Totals())
	t.Equal([]uint32{2}, results.Winners())

	_, err = GetPollResults(st, newTestContext(t.bob, 0, testNow+3), PollIDParams{PollID: 9})
	t.True(xerrors.Is(err, NotFoundError))
}

func (t *testQuery) TestGetPollResultsWithoutPrivateTally() {
	st := t.st.clone()
	st.private.tree.Delete(privateTally{PollID: 1})

	events, err := GetPollResults(st, newTestContext(t.bob, 0, testNow), PollIDParams{PollID: 1})
	t.NoError(err)

	results := events[0].(PollResults)
	t.Equal(Tally{0, 0, 0}, results.Private)
	t.Empty(results.Winners())

	// original is not touched by the clone
	_, found := t.st.PrivateTally(1)
	t.True(found)
}

func (t *testQuery) TestWinnersTie() {
	r := PollResults{Public: Tally{2, 1, 0}, Private: Tally{0, 1, 2}}
	t.Equal(Tally{2, 2, 2}, r.Totals())
	t.Equal([]uint32{0, 1, 2}, r.Winners())
}

func (t *testQuery) TestHasVoted() {
	st, _, err := VoteWithMPC(t.st, newTestContext(t.bob, 100, testNow+2), VoteWithMPCParams{PollID: 2, Option: 1})
	t.NoError(err)

	events, err := HasVoted(st, newTestContext(t.bob, 0, testNow+3), PollIDParams{PollID: 2})
	t.NoError(err)
	t.Equal([]Event{HasVotedResult{PollID: 2, User: t.bob, Voted: true}}, events)

	events, err = HasVoted(st, newTestContext(t.alice, 0, testNow+3), PollIDParams{PollID: 2})
	t.NoError(err)
	t.Equal([]Event{HasVotedResult{PollID: 2, User: t.alice, Voted: false}}, events)

	_, err = HasVoted(st, newTestContext(t.alice, 0, testNow+3), PollIDParams{PollID: 5})
	t.True(xerrors.Is(err, NotFoundError))
}

func TestQuery(t *testing.T) {
	suite.Run(t, new(testQuery))
}

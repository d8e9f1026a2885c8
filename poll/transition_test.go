package poll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/hash"
)

type testTransition struct {
	suite.Suite
	owner   account.Address
	creator account.Address
	x       account.Address
	y       account.Address
}

func (t *testTransition) SetupSuite() {
	t.owner = newTestAddress()
	t.creator = newTestAddress()
	t.x = newTestAddress()
	t.y = newTestAddress()
}

func (t *testTransition) newState() State {
	st, err := Initialize(t.owner)
	t.NoError(err)

	return st
}

func (t *testTransition) root(st State) hash.Hash {
	r, err := st.Root()
	t.NoError(err)

	return r
}

// withPoll returns the state with one poll, id 0, created by t.creator.
func (t *testTransition) withPoll() State {
	st, _, err := CreatePoll(t.newState(), newTestContext(t.creator, 100, testNow), newTestPollParams())
	t.NoError(err)

	return st
}

// failed checks the error kind and that the state was not touched.
func (t *testTransition) failed(before, after State, events []Event, err, kind error) {
	t.Error(err)
	t.True(xerrors.Is(err, kind), "expected=%v error=%v", kind, err)
	t.Empty(events)
	t.True(t.root(before).Equal(t.root(after)))
}

func (t *testTransition) TestInitialize() {
	st := t.newState()
	t.Equal(t.owner, st.Owner())
	t.Equal(uint64(0), st.Counter())
	t.Empty(st.Polls())
	t.NoError(st.IsValid())

	_, err := Initialize("")
	t.True(xerrors.Is(err, ValidationError))

	var empty State
	_, _, err = CreatePoll(empty, newTestContext(t.creator, 100, testNow), newTestPollParams())
	t.True(xerrors.Is(err, ValidationError))
}

func (t *testTransition) TestScenarioA() {
	st := t.newState()

	n, events, err := CreatePoll(st, newTestContext(t.creator, 100, testNow), newTestPollParams())
	t.NoError(err)

	t.Equal([]Event{PollCreated{PollID: 0, Creator: t.creator, Title: "Lunch"}}, events)

	p, err := n.Poll(0)
	t.NoError(err)
	t.Equal(uint64(0), p.ID)
	t.Equal(t.creator, p.Creator)
	t.Equal([]string{"Yes", "No"}, p.Options)
	t.Equal(testNow, p.CreatedAt)
	t.Equal(testNow+1000, p.ExpiresAt)
	t.True(p.Active)
	t.Equal(Tally{0, 0}, p.PublicVoteCounts)

	private, found := n.PrivateTally(0)
	t.True(found)
	t.Equal(Tally{0, 0}, private)

	t.Equal(uint64(1), n.Counter())
	t.NoError(n.IsValid())

	// given state is not changed
	t.Equal(uint64(0), st.Counter())
	t.Empty(st.Polls())
}

func (t *testTransition) TestScenarioB() {
	st := t.withPoll()

	n, events, err := VoteWithSignature(st, newTestContext(t.x, 0, testNow+1), VoteWithSignatureParams{PollID: 0, Option: 1})
	t.NoError(err)
	t.Equal([]Event{PublicVoteCast{PollID: 0, Voter: t.x, Option: 1}}, events)

	p, _ := n.Poll(0)
	t.Equal(Tally{0, 1}, p.PublicVoteCounts)

	receipt, found := n.Receipt(0, t.x)
	t.True(found)
	t.Equal(PublicReceipt{Option: 1}, receipt)

	// vote again
	again, events, err := VoteWithSignature(n, newTestContext(t.x, 0, testNow+2), VoteWithSignatureParams{PollID: 0, Option: 0})
	t.failed(n, again, events, err, AlreadyVotedError)

	// previous state still has no vote
	p, _ = st.Poll(0)
	t.Equal(Tally{0, 0}, p.PublicVoteCounts)
	t.False(st.HasVoted(0, t.x))
}

func (t *testTransition) TestScenarioC() {
	st := t.withPoll()

	n, events, err := VoteWithMPC(st, newTestContext(t.y, 100, testNow+1), VoteWithMPCParams{PollID: 0, Option: 0})
	t.NoError(err)
	t.Equal([]Event{PrivateVoteCast{PollID: 0, Voter: t.y}}, events)

	b, err := json.Marshal(events[0])
	t.NoError(err)
	t.NotContains(string(b), "option")

	private, _ := n.PrivateTally(0)
	t.Equal(Tally{1, 0}, private)
	t.True(n.HasVoted(0, t.y))

	// no trace of choice
	receipt, found := n.Receipt(0, t.y)
	t.True(found)
	t.Equal(PrivateReceiptKind, receipt.Kind())
	_, isPublic := receipt.(PublicReceipt)
	t.False(isPublic)

	p, err := n.Poll(0)
	t.NoError(err)
	t.Equal(Tally{0, 0}, p.PublicVoteCounts)

	b, err = json.Marshal(n.Voters(0)[t.y])
	t.NoError(err)
	t.Equal(`{"kind":"private"}`, string(b))

	t.NoError(n.IsValid())
}

func (t *testTransition) TestScenarioD() {
	st := t.withPoll()

	n, events, err := EndPoll(st, newTestContext(t.creator, 0, testNow+1), PollIDParams{PollID: 0})
	t.NoError(err)
	t.Equal([]Event{PollEnded{PollID: 0, EndedBy: t.creator}}, events)

	p, _ := n.Poll(0)
	t.False(p.Active)
	t.Equal(StatusEnded, p.Status(testNow+1))

	{
		after, events, err := VoteWithSignature(n, newTestContext(t.x, 0, testNow+2), VoteWithSignatureParams{PollID: 0, Option: 0})
		t.failed(n, after, events, err, PollInactiveError)
		t.True(xerrors.Is(err, ValidationError))
	}

	{
		after, events, err := VoteWithMPC(n, newTestContext(t.x, 100, testNow+2), VoteWithMPCParams{PollID: 0, Option: 0})
		t.failed(n, after, events, err, PollInactiveError)
		t.True(xerrors.Is(err, ValidationError))
	}

	{ // after expiry, inactive comes first
		after, events, err := VoteWithSignature(n, newTestContext(t.x, 0, testNow+5000), VoteWithSignatureParams{PollID: 0, Option: 0})
		t.failed(n, after, events, err, PollInactiveError)
	}

	{ // already ended
		after, events, err := EndPoll(n, newTestContext(t.creator, 0, testNow+3), PollIDParams{PollID: 0})
		t.failed(n, after, events, err, ValidationError)
		t.False(xerrors.Is(err, PollInactiveError))
	}
}

func (t *testTransition) TestScenarioE() {
	st := t.withPoll()

	n, events, err := EndPoll(st, newTestContext(t.x, 0, testNow+1), PollIDParams{PollID: 0})
	t.failed(st, n, events, err, UnauthorizedError)

	p, _ := n.Poll(0)
	t.True(p.Active)
}

func (t *testTransition) TestCreatePollPayment() {
	st := t.newState()

	n, events, err := CreatePoll(st, newTestContext(t.creator, 99, testNow), newTestPollParams())
	t.failed(st, n, events, err, InsufficientPaymentError)
	t.Equal(uint64(0), n.Counter())

	// more than fee is fine
	_, _, err = CreatePoll(st, newTestContext(t.creator, 1000, testNow), newTestPollParams())
	t.NoError(err)
}

func (t *testTransition) TestCreatePollValidation() {
	st := t.newState()
	ctx := newTestContext(t.creator, 100, testNow)

	cases := []struct {
		name   string
		params func(*CreatePollParams)
	}{
		{name: "empty title", params: func(p *CreatePollParams) { p.Title = "" }},
		{name: "empty description", params: func(p *CreatePollParams) { p.Description = "" }},
		{name: "one option", params: func(p *CreatePollParams) { p.Options = []string{"Yes"} }},
		{name: "no options", params: func(p *CreatePollParams) { p.Options = nil }},
		{name: "blank option", params: func(p *CreatePollParams) { p.Options = []string{"Yes", "  "} }},
		{name: "expires now", params: func(p *CreatePollParams) { p.ExpiresAt = testNow }},
		{name: "expires in past", params: func(p *CreatePollParams) { p.ExpiresAt = testNow - 1 }},
	}

	for i, c := range cases {
		params := newTestPollParams()
		c.params(&params)

		n, events, err := CreatePoll(st, ctx, params)
		t.True(xerrors.Is(err, ValidationError), "%d: %v; %v", i, c.name, err)
		t.Empty(events, "%d: %v", i, c.name)
		t.Equal(uint64(0), n.Counter(), "%d: %v", i, c.name)
	}
}

func (t *testTransition) TestCounter() {
	st := t.newState()
	ctx := newTestContext(t.creator, 100, testNow)

	for i := uint64(0); i < 3; i++ {
		n, events, err := CreatePoll(st, ctx, newTestPollParams())
		t.NoError(err)
		t.Equal(i, events[0].(PollCreated).PollID)
		t.Equal(i+1, n.Counter())

		st = n
	}

	// failed creation does not consume id
	params := newTestPollParams()
	params.Title = ""
	_, _, err := CreatePoll(st, ctx, params)
	t.Error(err)

	_, events, err := CreatePoll(st, ctx, newTestPollParams())
	t.NoError(err)
	t.Equal(uint64(3), events[0].(PollCreated).PollID)

	ids := []uint64{}
	for _, p := range st.Polls() {
		ids = append(ids, p.ID)
	}
	t.Equal([]uint64{0, 1, 2}, ids)
}

func (t *testTransition) TestCreatePollCopiesOptions() {
	params := newTestPollParams()
	st, _, err := CreatePoll(t.newState(), newTestContext(t.creator, 100, testNow), params)
	t.NoError(err)

	params.Options[0] = "Maybe"

	p, _ := st.Poll(0)
	t.Equal("Yes", p.Options[0])

	// returned poll is a copy
	p.Options[1] = "Never"
	p.PublicVoteCounts[0] = 9

	q, _ := st.Poll(0)
	t.Equal("No", q.Options[1])
	t.Equal(Tally{0, 0}, q.PublicVoteCounts)
}

func (t *testTransition) TestVotePreconditions() {
	st := t.withPoll()

	{ // unknown poll
		n, events, err := VoteWithSignature(st, newTestContext(t.x, 0, testNow+1), VoteWithSignatureParams{PollID: 1, Option: 0})
		t.failed(st, n, events, err, NotFoundError)
	}

	{ // expired, but still active
		n, events, err := VoteWithSignature(st, newTestContext(t.x, 0, testNow+1000), VoteWithSignatureParams{PollID: 0, Option: 0})
		t.failed(st, n, events, err, PollExpiredError)
		t.False(xerrors.Is(err, ValidationError))

		p, _ := n.Poll(0)
		t.True(p.Active)
		t.Equal(StatusExpired, p.Status(testNow+1000))
	}

	{ // expired comes before invalid option
		n, events, err := VoteWithMPC(st, newTestContext(t.x, 100, testNow+2000), VoteWithMPCParams{PollID: 0, Option: 9})
		t.failed(st, n, events, err, PollExpiredError)
	}

	{ // invalid option
		n, events, err := VoteWithSignature(st, newTestContext(t.x, 0, testNow+1), VoteWithSignatureParams{PollID: 0, Option: 2})
		t.failed(st, n, events, err, ValidationError)
	}

	{ // private needs payment before anything
		n, events, err := VoteWithMPC(st, newTestContext(t.x, 99, testNow+1), VoteWithMPCParams{PollID: 7, Option: 0})
		t.failed(st, n, events, err, InsufficientPaymentError)
	}
}

func (t *testTransition) TestMixingModes() {
	st := t.withPoll()

	{ // public, then private
		n, _, err := VoteWithSignature(st, newTestContext(t.x, 0, testNow+1), VoteWithSignatureParams{PollID: 0, Option: 0})
		t.NoError(err)

		after, events, err := VoteWithMPC(n, newTestContext(t.x, 100, testNow+2), VoteWithMPCParams{PollID: 0, Option: 1})
		t.failed(n, after, events, err, AlreadyVotedError)
	}

	{ // private, then public
		n, _, err := VoteWithMPC(st, newTestContext(t.x, 100, testNow+1), VoteWithMPCParams{PollID: 0, Option: 0})
		t.NoError(err)

		after, events, err := VoteWithSignature(n, newTestContext(t.x, 0, testNow+2), VoteWithSignatureParams{PollID: 0, Option: 1})
		t.failed(n, after, events, err, AlreadyVotedError)
	}
}

func (t *testTransition) TestSignatureForwarded() {
	st := t.withPoll()

	sig := []byte("not verified signature")
	_, events, err := VoteWithSignature(
		st,
		newTestContext(t.x, 0, testNow+1),
		VoteWithSignatureParams{PollID: 0, Option: 1, Signature: sig},
	)
	t.NoError(err)
	t.Equal(sig, []byte(events[0].(PublicVoteCast).Signature))
}

func (t *testTransition) TestEndExpiredPoll() {
	st := t.withPoll()

	n, _, err := EndPoll(st, newTestContext(t.creator, 0, testNow+5000), PollIDParams{PollID: 0})
	t.NoError(err)

	p, _ := n.Poll(0)
	t.False(p.Active)

	_, _, err = EndPoll(st, newTestContext(t.creator, 0, testNow+1), PollIDParams{PollID: 3})
	t.True(xerrors.Is(err, NotFoundError))
}

func (t *testTransition) TestTallyInvariants() {
	st := t.withPoll()

	voters := []account.Address{t.x, t.y, newTestAddress(), newTestAddress(), newTestAddress()}
	for i, v := range voters {
		var err error
		ctx := newTestContext(v, 100, testNow+uint64(i)+1)
		if i%2 == 0 {
			st, _, err = VoteWithSignature(st, ctx, VoteWithSignatureParams{PollID: 0, Option: uint32(i % 2)})
		} else {
			st, _, err = VoteWithMPC(st, ctx, VoteWithMPCParams{PollID: 0, Option: uint32(i % 2)})
		}
		t.NoError(err)
	}

	t.NoError(st.IsValid())

	p, _ := st.Poll(0)
	t.Equal(Tally{3, 0}, p.PublicVoteCounts)

	private, _ := st.PrivateTally(0)
	t.Equal(Tally{0, 2}, private)

	var public, hidden int
	for _, r := range st.Voters(0) {
		switch r.Kind() {
		case PublicReceiptKind:
			public++
		case PrivateReceiptKind:
			hidden++
		}
	}
	t.Equal(3, public)
	t.Equal(2, hidden)
}

func (t *testTransition) TestDeterministic() {
	run := func() State {
		st, err := Initialize(t.owner)
		t.NoError(err)

		st, _, err = CreatePoll(st, newTestContext(t.creator, 100, testNow), newTestPollParams())
		t.NoError(err)
		st, _, err = CreatePoll(st, newTestContext(t.x, 100, testNow+1), newTestPollParams())
		t.NoError(err)
		st, _, err = VoteWithMPC(st, newTestContext(t.y, 100, testNow+2), VoteWithMPCParams{PollID: 1, Option: 1})
		t.NoError(err)
		st, _, err = VoteWithSignature(st, newTestContext(t.x, 0, testNow+3), VoteWithSignatureParams{PollID: 0, Option: 0})
		t.NoError(err)
		st, _, err = VoteWithSignature(st, newTestContext(t.y, 0, testNow+4), VoteWithSignatureParams{PollID: 0, Option: 1})
		t.NoError(err)
		st, _, err = EndPoll(st, newTestContext(t.creator, 0, testNow+5), PollIDParams{PollID: 0})
		t.NoError(err)

		return st
	}

	a := run()
	b := run()
	t.True(t.root(a).Equal(t.root(b)))

	ab, err := a.MarshalBinary()
	t.NoError(err)
	bb, err := b.MarshalBinary()
	t.NoError(err)
	t.Equal(ab, bb)

	// decoded state gives the same root
	var decoded State
	t.NoError(decoded.UnmarshalBinary(ab))
	t.True(t.root(a).Equal(t.root(decoded)))
	t.Equal(a.Counter(), decoded.Counter())
	t.Equal(a.Polls(), decoded.Polls())

	receipt, found := decoded.Receipt(1, t.y)
	t.True(found)
	t.Equal(PrivateReceipt{}, receipt)
}

func (t *testTransition) TestExecute() {
	st := t.newState()
	ctx := newTestContext(t.creator, 100, testNow)

	n, events, err := Execute(st, ctx, OperationCreatePoll, newTestPollParams())
	t.NoError(err)
	t.Len(events, 1)
	t.Equal(uint64(1), n.Counter())

	// wrong parameter type
	after, events, err := Execute(n, ctx, OperationCreatePoll, PollIDParams{})
	t.failed(n, after, events, err, ValidationError)

	_, _, err = Execute(n, ctx, Operation(0x09), nil)
	t.True(xerrors.Is(err, UnknownOperationError))

	// query returns the same state
	q, events, err := Execute(n, ctx, OperationGetPoll, PollIDParams{PollID: 0})
	t.NoError(err)
	t.IsType(PollDetails{}, events[0])
	t.True(t.root(n).Equal(t.root(q)))
}

func TestTransition(t *testing.T) {
	suite.Run(t, new(testTransition))
}

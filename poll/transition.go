package poll

import (
	"golang.org/x/xerrors"
)

func checkState(st State) error {
	if st.IsEmpty() {
		return ValidationError.Newf("state is not initialized")
	}

	return nil
}

// CreatePoll registers the new poll created by the sender.
func CreatePoll(st State, ctx Context, params CreatePollParams) (State, []Event, error) {
	if err := checkState(st); err != nil {
		return st, nil, err
	}

	if !ctx.paid(CreatePollFee) {
		return st, nil, InsufficientPaymentError.Newf(
			"%s required to create a poll; amount=%s", CreatePollFee, ctx.Amount,
		)
	}

	n := st.clone()

	p, err := n.registry.create(
		ctx.Sender,
		params.Title,
		params.Description,
		params.Options,
		params.ExpiresAt,
		ctx.Now,
	)
	if err != nil {
		return st, nil, err
	}

	n.private.reset(p.ID, p.NumOptions())

	return n, []Event{PollCreated{PollID: p.ID, Creator: p.Creator, Title: p.Title}}, nil
}

// votable checks the preconditions shared by both voting paths in order.
func votable(st State, ctx Context, pollID uint64, option uint32) (Poll, error) {
	p, err := st.registry.get(pollID)
	if err != nil {
		return Poll{}, err
	}

	if err := checkOpen(p, ctx.Now); err != nil {
		return Poll{}, err
	}

	if int(option) >= p.NumOptions() {
		return Poll{}, ValidationError.Newf("invalid option index; poll_id=%d option_index=%d", pollID, option)
	}

	if st.receipts.hasVoted(pollID, ctx.Sender) {
		return Poll{}, AlreadyVotedError.Newf("poll_id=%d voter=%s", pollID, ctx.Sender)
	}

	return p, nil
}

// VoteWithSignature casts the public vote. The signature is forwarded in the
// event as it is.
func VoteWithSignature(st State, ctx Context, params VoteWithSignatureParams) (State, []Event, error) {
	if err := checkState(st); err != nil {
		return st, nil, err
	}

	p, err := votable(st, ctx, params.PollID, params.Option)
	if err != nil {
		return st, nil, err
	}

	n := st.clone()
	if err := n.receipts.record(p.ID, ctx.Sender, PublicReceipt{Option: params.Option}); err != nil {
		return st, nil, err
	}

	p.PublicVoteCounts = p.PublicVoteCounts.Inc(params.Option)
	if err := n.registry.set(p); err != nil {
		return st, nil, err
	}

	return n, []Event{PublicVoteCast{
		PollID:    p.ID,
		Voter:     ctx.Sender,
		Option:    params.Option,
		Signature: params.Signature,
	}}, nil
}

// VoteWithMPC casts the private vote. The receipt and the event never carry
// the chosen option.
func VoteWithMPC(st State, ctx Context, params VoteWithMPCParams) (State, []Event, error) {
	if err := checkState(st); err != nil {
		return st, nil, err
	}

	if !ctx.paid(PrivateVoteFee) {
		return st, nil, InsufficientPaymentError.Newf(
			"%s required for private voting; amount=%s", PrivateVoteFee, ctx.Amount,
		)
	}

	p, err := votable(st, ctx, params.PollID, params.Option)
	if err != nil {
		return st, nil, err
	}

	n := st.clone()
	if err := n.receipts.record(p.ID, ctx.Sender, PrivateReceipt{}); err != nil {
		return st, nil, err
	}

	n.private.increment(p.ID, params.Option, p.NumOptions())

	return n, []Event{PrivateVoteCast{PollID: p.ID, Voter: ctx.Sender}}, nil
}

// EndPoll ends the poll before the expiry; only the creator can end it.
func EndPoll(st State, ctx Context, params PollIDParams) (State, []Event, error) {
	if err := checkState(st); err != nil {
		return st, nil, err
	}

	p, err := st.registry.get(params.PollID)
	if err != nil {
		return st, nil, err
	}

	ended, err := end(p, ctx.Sender)
	if err != nil {
		return st, nil, err
	}

	n := st.clone()
	if err := n.registry.set(ended); err != nil {
		return st, nil, err
	}

	return n, []Event{PollEnded{PollID: p.ID, EndedBy: ctx.Sender}}, nil
}

// Execute runs the operation with the decoded parameter. Query operations
// return the given state.
func Execute(st State, ctx Context, op Operation, params interface{}) (State, []Event, error) {
	var n State
	var events []Event
	var err error

	switch op {
	case OperationCreatePoll:
		p, ok := params.(CreatePollParams)
		if !ok {
			return st, nil, wrongParams(op, params)
		}
		n, events, err = CreatePoll(st, ctx, p)
	case OperationVoteWithSignature:
		p, ok := params.(VoteWithSignatureParams)
		if !ok {
			return st, nil, wrongParams(op, params)
		}
		n, events, err = VoteWithSignature(st, ctx, p)
	case OperationVoteWithMPC:
		p, ok := params.(VoteWithMPCParams)
		if !ok {
			return st, nil, wrongParams(op, params)
		}
		n, events, err = VoteWithMPC(st, ctx, p)
	case OperationEndPoll:
		p, ok := params.(PollIDParams)
		if !ok {
			return st, nil, wrongParams(op, params)
		}
		n, events, err = EndPoll(st, ctx, p)
	case OperationGetPolls:
		p, ok := params.(GetPollsParams)
		if !ok {
			return st, nil, wrongParams(op, params)
		}
		n = st
		events, err = GetPolls(st, ctx, p)
	case OperationGetPoll, OperationGetPollResults, OperationHasVoted:
		p, ok := params.(PollIDParams)
		if !ok {
			return st, nil, wrongParams(op, params)
		}

		n = st
		switch op {
		case OperationGetPoll:
			events, err = GetPoll(st, ctx, p)
		case OperationGetPollResults:
			events, err = GetPollResults(st, ctx, p)
		default:
			events, err = HasVoted(st, ctx, p)
		}
	default:
		return st, nil, UnknownOperationError.Newf("%s", op)
	}

	if err != nil {
		return st, nil, err
	}

	return n, events, nil
}

func wrongParams(op Operation, params interface{}) error {
	return ValidationError.New(xerrors.Errorf("wrong parameter for %s; %T", op, params))
}

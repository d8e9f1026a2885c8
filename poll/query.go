package poll

// GetPolls lists the polls matched with the filter in ascending id order.
func GetPolls(st State, ctx Context, params GetPollsParams) ([]Event, error) {
	if err := checkState(st); err != nil {
		return nil, err
	}

	if _, err := ParseStatus(string(params.Status)); err != nil {
		return nil, err
	}

	polls := []Poll{}
	st.registry.each(func(p Poll) bool {
		if params.match(p, ctx.Now) {
			polls = append(polls, p.copy())
		}

		return true
	})

	return []Event{PollsList{Polls: polls}}, nil
}

func GetPoll(st State, _ Context, params PollIDParams) ([]Event, error) {
	if err := checkState(st); err != nil {
		return nil, err
	}

	p, err := st.registry.get(params.PollID)
	if err != nil {
		return nil, err
	}

	return []Event{PollDetails{Poll: p.copy()}}, nil
}

// GetPollResults returns both tallies; the missing private tally is
// reported as zero counts.
func GetPollResults(st State, _ Context, params PollIDParams) ([]Event, error) {
	if err := checkState(st); err != nil {
		return nil, err
	}

	p, err := st.registry.get(params.PollID)
	if err != nil {
		return nil, err
	}

	private, found := st.private.get(p.ID)
	if !found {
		private = NewTally(p.NumOptions())
	}

	return []Event{PollResults{
		PollID:  p.ID,
		Public:  p.PublicVoteCounts.Copy(),
		Private: private.Copy(),
	}}, nil
}

// HasVoted reports whether the sender voted in the poll.
func HasVoted(st State, ctx Context, params PollIDParams) ([]Event, error) {
	if err := checkState(st); err != nil {
		return nil, err
	}

	if _, err := st.registry.get(params.PollID); err != nil {
		return nil, err
	}

	return []Event{HasVotedResult{
		PollID: params.PollID,
		User:   ctx.Sender,
		Voted:  st.receipts.hasVoted(params.PollID, ctx.Sender),
	}}, nil
}

package poll

import (
	"github.com/spikeekips/partivotes/account"
)

// checkOpen gates voting; the stored Active flag is checked before the
// expiry.
func checkOpen(p Poll, now uint64) error {
	if !p.Active {
		return PollInactiveError.Newf("poll_id=%d", p.ID)
	}

	if now >= p.ExpiresAt {
		return PollExpiredError.Newf("poll_id=%d expires_at=%d now=%d", p.ID, p.ExpiresAt, now)
	}

	return nil
}

// end moves the poll from active to ended. Expired polls still can be
// ended by the creator.
func end(p Poll, sender account.Address) (Poll, error) {
	if !p.Creator.Equal(sender) {
		return Poll{}, UnauthorizedError.Newf("only poll creator can end poll; poll_id=%d sender=%s", p.ID, sender)
	}

	if !p.Active {
		return Poll{}, ValidationError.Newf("poll is already ended; poll_id=%d", p.ID)
	}

	n := p
	n.Active = false

	return n, nil
}

package poll

import (
	"strings"

	"github.com/google/btree"

	"github.com/spikeekips/partivotes/account"
)

const btreeDegree int = 32

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusEnded   Status = "ended"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusExpired, StatusEnded:
		return st, nil
	case "":
		return "", nil
	default:
		return "", ValidationError.Newf("unknown status; %q", s)
	}
}

// Poll is the voting contest. Only Active and PublicVoteCounts change after
// creation.
type Poll struct {
	ID               uint64          `json:"id"`
	Creator          account.Address `json:"creator"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Options          []string        `json:"options"`
	CreatedAt        uint64          `json:"created_at"`
	ExpiresAt        uint64          `json:"expires_at"`
	Active           bool            `json:"active"`
	PublicVoteCounts Tally           `json:"public_vote_counts"`
}

// Status is the lifecycle projection at now. A poll can be expired while
// Active is still true.
func (p Poll) Status(now uint64) Status {
	switch {
	case !p.Active:
		return StatusEnded
	case now >= p.ExpiresAt:
		return StatusExpired
	default:
		return StatusActive
	}
}

func (p Poll) NumOptions() int {
	return len(p.Options)
}

func (p Poll) IsValid() error {
	if len(p.Title) < 1 {
		return ValidationError.Newf("poll title cannot be empty")
	}

	if len(p.Description) < 1 {
		return ValidationError.Newf("poll description cannot be empty")
	}

	if len(p.Options) < 2 {
		return ValidationError.Newf("poll must have at least 2 options; options=%d", len(p.Options))
	}

	for i, o := range p.Options {
		if len(strings.TrimSpace(o)) < 1 {
			return ValidationError.Newf("poll option cannot be empty; index=%d", i)
		}
	}

	if p.ExpiresAt <= p.CreatedAt {
		return ValidationError.Newf(
			"expiration time must be in the future; created_at=%d expires_at=%d",
			p.CreatedAt,
			p.ExpiresAt,
		)
	}

	if len(p.PublicVoteCounts) != len(p.Options) {
		return ValidationError.Newf(
			"public vote counts should have one entry per option; options=%d counts=%d",
			len(p.Options),
			len(p.PublicVoteCounts),
		)
	}

	return nil
}

func (p Poll) copy() Poll {
	n := p
	n.Options = make([]string, len(p.Options))
	copy(n.Options, p.Options)
	n.PublicVoteCounts = p.PublicVoteCounts.Copy()

	return n
}

// registry keeps polls by id; the counter is the next id.
type registry struct {
	counter uint64
	tree    *btree.BTreeG[Poll]
}

func newRegistry() registry {
	return registry{
		tree: btree.NewG(btreeDegree, func(a, b Poll) bool {
			return a.ID < b.ID
		}),
	}
}

func (r registry) clone() registry {
	return registry{counter: r.counter, tree: r.tree.Clone()}
}

func (r *registry) create(
	creator account.Address,
	title, description string,
	options []string,
	expiresAt, now uint64,
) (Poll, error) {
	p := Poll{
		ID:               r.counter,
		Creator:          creator,
		Title:            title,
		Description:      description,
		Options:          make([]string, len(options)),
		CreatedAt:        now,
		ExpiresAt:        expiresAt,
		Active:           true,
		PublicVoteCounts: NewTally(len(options)),
	}
	copy(p.Options, options)

	if err := p.IsValid(); err != nil {
		return Poll{}, err
	}

	r.counter++
	r.tree.ReplaceOrInsert(p)

	return p, nil
}

func (r registry) get(id uint64) (Poll, error) {
	p, found := r.tree.Get(Poll{ID: id})
	if !found {
		return Poll{}, NotFoundError.Newf("poll_id=%d", id)
	}

	return p, nil
}

// set replaces the stored poll; the immutable fields of the stored one are
// kept.
func (r registry) set(p Poll) error {
	old, err := r.get(p.ID)
	if err != nil {
		return err
	}

	if old.Active != p.Active && !old.Active {
		return ValidationError.Newf("ended poll can not be activated; poll_id=%d", p.ID)
	}

	n := old
	n.Active = p.Active
	n.PublicVoteCounts = p.PublicVoteCounts

	r.tree.ReplaceOrInsert(n)

	return nil
}

func (r registry) each(f func(Poll) bool) {
	r.tree.Ascend(func(p Poll) bool {
		return f(p)
	})
}

func (r registry) len() int {
	return r.tree.Len()
}

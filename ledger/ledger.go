package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/hash"
	"github.com/spikeekips/partivotes/poll"
)

// Receipt is the result of the invocation. Height and Root are of the latest
// block; queries do not move them.
type Receipt struct {
	InvocationID string
	Height       uint64
	Root         hash.Hash
	Events       []poll.Event
}

func (r Receipt) MarshalJSON() ([]byte, error) {
	events, err := poll.MarshalEvents(r.Events)
	if err != nil {
		return nil, err
	}

	m := map[string]interface{}{
		"height": r.Height,
		"root":   r.Root,
		"events": json.RawMessage(events),
	}

	if len(r.InvocationID) > 0 {
		m["invocation_id"] = r.InvocationID
	}

	return json.Marshal(m)
}

// Ledger hosts the poll state. Invocations are applied one at a time and
// every accepted state change is stored in the journal before it becomes the
// current state.
type Ledger struct {
	sync.RWMutex
	*common.Logger
	journal     *Journal
	state       poll.State
	block       Block
	clock       func() time.Time
	verifier    SignatureVerifier
	requireAuth bool
	metrics     *Metrics
}

func NewLedger(journal *Journal) *Ledger {
	return &Ledger{
		Logger:  common.NewLogger(log, "module", "ledger"),
		journal: journal,
		clock:   common.Now,
	}
}

func (l *Ledger) SetClock(clock func() time.Time) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.clock = clock

	return l
}

func (l *Ledger) SetVerifier(verifier SignatureVerifier) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.verifier = verifier

	return l
}

// SetRequireAuthentication rejects the invocation which is not signed.
func (l *Ledger) SetRequireAuthentication(require bool) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.requireAuth = require

	return l
}

func (l *Ledger) SetMetrics(metrics *Metrics) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.metrics = metrics

	return l
}

func (l *Ledger) Journal() *Journal {
	return l.journal
}

// Initialize stores the genesis state owned by owner.
func (l *Ledger) Initialize(owner account.Address) error {
	l.Lock()
	defer l.Unlock()

	if _, found, err := l.journal.LatestHeight(); err != nil {
		return err
	} else if found {
		return AlreadyInitializedError
	}

	st, err := poll.Initialize(owner)
	if err != nil {
		return err
	}

	now := common.Millis(l.clock())
	record := Record{
		ID:     common.RandomUUID(),
		Height: 0,
		Now:    now,
		Invocation: Invocation{
			Version:   CurrentInvocationVersion,
			Operation: poll.OperationInitialize,
			Sender:    owner,
		},
	}

	block, err := l.store(st, Block{}, record, nil)
	if err != nil {
		return err
	}

	l.state = st
	l.block = block
	l.metrics.update(block.Height, st)

	l.Log().Info("ledger initialized", "owner", owner, "root", block.Root)

	return nil
}

// Open restores the state of the latest block.
func (l *Ledger) Open() error {
	l.Lock()
	defer l.Unlock()

	height, found, err := l.journal.LatestHeight()
	if err != nil {
		return err
	} else if !found {
		return NotInitializedError
	}

	block, err := l.journal.Block(height)
	if err != nil {
		return err
	}

	st, err := l.journal.Snapshot(height)
	if err != nil {
		return err
	}

	if root, err := st.Root(); err != nil {
		return err
	} else if !root.Equal(block.Root) {
		return RootMismatchError.Newf("height=%d block=%s snapshot=%s", height, block.Root, root)
	}

	l.state = st
	l.block = block
	l.metrics.update(block.Height, st)

	l.Log().Debug("ledger opened", "height", height, "root", block.Root)

	return nil
}

func (l *Ledger) State() poll.State {
	l.RLock()
	defer l.RUnlock()

	return l.state
}

func (l *Ledger) Height() uint64 {
	l.RLock()
	defer l.RUnlock()

	return l.block.Height
}

func (l *Ledger) Root() hash.Hash {
	l.RLock()
	defer l.RUnlock()

	return l.block.Root
}

// Invoke authenticates the invocation and applies it to the current state.
// The rejected invocation changes nothing.
func (l *Ledger) Invoke(iv Invocation) (Receipt, error) {
	started := time.Now()

	l.Lock()
	defer l.Unlock()

	receipt, err := l.invoke(iv)
	l.metrics.observe(iv.Operation, started, err)

	if err != nil {
		l.Log().Debug("invocation rejected", "operation", iv.Operation, "sender", iv.Sender, "error", err)
		return Receipt{}, err
	}

	if !iv.Operation.IsQuery() {
		l.Log().Info(
			"invocation accepted",
			"operation", iv.Operation,
			"sender", iv.Sender,
			"height", receipt.Height,
			"root", receipt.Root,
		)
	}

	return receipt, nil
}

// Query runs the query operation on the current state. The sender may be
// empty except for has_voted.
func (l *Ledger) Query(op poll.Operation, sender account.Address, params interface{}) (Receipt, error) {
	started := time.Now()

	l.RLock()
	defer l.RUnlock()

	receipt, err := l.query(op, sender, params)
	l.metrics.observe(op, started, err)

	return receipt, err
}

func (l *Ledger) query(op poll.Operation, sender account.Address, params interface{}) (Receipt, error) {
	if l.state.IsEmpty() {
		return Receipt{}, NotInitializedError
	}

	if !op.IsQuery() {
		return Receipt{}, InvalidInvocationError.Newf("not query operation; %s", op)
	}

	if op == poll.OperationHasVoted {
		if err := sender.IsValid(); err != nil {
			return Receipt{}, err
		}
	}

	ctx := poll.Context{Sender: sender, Now: common.Millis(l.clock())}

	_, events, err := poll.Execute(l.state, ctx, op, params)
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{Height: l.block.Height, Root: l.block.Root, Events: events}, nil
}

func (l *Ledger) invoke(iv Invocation) (Receipt, error) {
	if l.state.IsEmpty() {
		return Receipt{}, NotInitializedError
	}

	if err := iv.IsValid(); err != nil {
		return Receipt{}, err
	}

	if iv.IsSigned() {
		if err := iv.Authenticate(); err != nil {
			return Receipt{}, err
		}
	} else if l.requireAuth && !iv.Operation.IsQuery() {
		return Receipt{}, UnauthenticatedError.Newf("signature required; operation=%s", iv.Operation)
	}

	params, err := iv.DecodeParams()
	if err != nil {
		return Receipt{}, err
	}

	if p, ok := params.(poll.VoteWithSignatureParams); ok && l.verifier != nil {
		if err := l.verifier.VerifyVote(iv, p); err != nil {
			return Receipt{}, err
		}
	}

	record := Record{
		Height:     l.block.Height + 1,
		Now:        common.Millis(l.clock()),
		Invocation: iv,
	}

	st, events, err := poll.Execute(l.state, record.Context(), iv.Operation, params)
	if err != nil {
		return Receipt{}, err
	}

	if iv.Operation.IsQuery() {
		return Receipt{Height: l.block.Height, Root: l.block.Root, Events: events}, nil
	}

	record.ID = common.RandomUUID()

	block, err := l.store(st, l.block, record, events)
	if err != nil {
		return Receipt{}, err
	}

	l.state = st
	l.block = block
	l.metrics.update(block.Height, st)

	return Receipt{InvocationID: record.ID, Height: block.Height, Root: block.Root, Events: events}, nil
}

func (l *Ledger) store(st poll.State, prev Block, record Record, events []poll.Event) (Block, error) {
	snapshot, err := st.MarshalBinary()
	if err != nil {
		return Block{}, err
	}

	root, err := st.Root()
	if err != nil {
		return Block{}, err
	}

	block := Block{
		Height:       record.Height,
		Root:         root,
		InvocationID: record.ID,
		Operation:    record.Invocation.Operation,
		Now:          record.Now,
		Events:       uint(len(events)),
	}

	if record.Height > 0 {
		block.PrevRoot = prev.Root
	}

	if err := l.journal.Store(block, snapshot, events, record); err != nil {
		return Block{}, err
	}

	return block, nil
}

// Replay applies the journaled invocations again from the genesis state and
// checks that every height ends at the same root.
func (l *Ledger) Replay(ctx context.Context) (poll.State, error) {
	latest, found, err := l.journal.LatestHeight()
	if err != nil {
		return poll.State{}, err
	} else if !found {
		return poll.State{}, NotInitializedError
	}

	genesis, err := l.journal.Record(0)
	if err != nil {
		return poll.State{}, err
	}

	st, err := poll.Initialize(genesis.Invocation.Sender)
	if err != nil {
		return poll.State{}, err
	}

	for height := uint64(0); height <= latest; height++ {
		if err := ctx.Err(); err != nil {
			return poll.State{}, err
		}

		block, err := l.journal.Block(height)
		if err != nil {
			return poll.State{}, err
		}

		if height > 0 {
			record, err := l.journal.Record(height)
			if err != nil {
				return poll.State{}, err
			}

			params, err := record.Invocation.DecodeParams()
			if err != nil {
				return poll.State{}, err
			}

			st, _, err = poll.Execute(st, record.Context(), record.Invocation.Operation, params)
			if err != nil {
				return poll.State{}, JournalError.Newf("failed to replay; height=%d: %v", height, err)
			}
		}

		root, err := st.Root()
		if err != nil {
			return poll.State{}, err
		} else if !root.Equal(block.Root) {
			return poll.State{}, RootMismatchError.Newf("replayed; height=%d block=%s replayed=%s", height, block.Root, root)
		}
	}

	l.Log().Debug("journal replayed", "latest", latest)

	return st, nil
}

package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/encode"
	"github.com/spikeekips/partivotes/poll"
	"github.com/spikeekips/partivotes/storage"
)

var (
	keyPrefixLatest   = []byte("latest")
	keyPrefixBlock    = []byte("b:")
	keyPrefixSnapshot = []byte("s:")
	keyPrefixEvents   = []byte("e:")
	keyPrefixRecord   = []byte("r:")
)

func heightKey(prefix []byte, height uint64) []byte {
	b := make([]byte, len(prefix)+8)
	copy(b, prefix)
	binary.BigEndian.PutUint64(b[len(prefix):], height)

	return b
}

// NewEncoders returns the encoders of the journal; rlp for the heights and
// json for the records.
func NewEncoders() *encode.Encoders {
	encs := encode.NewEncoders()
	_ = encs.Register(encode.RLP{})
	_ = encs.Register(encode.JSON{})

	return encs
}

// Journal keeps the snapshot of every height. Each height is written in one
// batch, so a height is stored completely or not at all.
type Journal struct {
	*common.Logger
	st       storage.Storage
	encoders *encode.Encoders
}

func NewJournal(st storage.Storage, encoders *encode.Encoders) *Journal {
	if encoders == nil {
		encoders = NewEncoders()
	}

	return &Journal{
		Logger:   common.NewLogger(log, "module", "journal"),
		st:       st,
		encoders: encoders,
	}
}

func (j *Journal) Storage() storage.Storage {
	return j.st
}

// LatestHeight returns false when nothing is stored.
func (j *Journal) LatestHeight() (uint64, bool, error) {
	b, err := j.st.Get(keyPrefixLatest)
	if err != nil {
		if xerrors.Is(err, storage.RecordNotFoundError) {
			return 0, false, nil
		}

		return 0, false, JournalError.New(err)
	}

	var height uint64
	if err := j.encoders.Decode(b, &height); err != nil {
		return 0, false, JournalError.New(err)
	}

	return height, true, nil
}

// Store writes the block with the snapshot, the events and the record, and
// moves the latest height to the block.
func (j *Journal) Store(block Block, snapshot []byte, events []poll.Event, record Record) error {
	if err := block.IsValid(); err != nil {
		return err
	}

	latest, found, err := j.LatestHeight()
	if err != nil {
		return err
	}

	switch {
	case !found && !block.IsGenesis():
		return JournalError.Newf("genesis block is missing; height=%d", block.Height)
	case found && block.Height != latest+1:
		return JournalError.Newf("wrong height; latest=%d height=%d", latest, block.Height)
	}

	bb, err := j.encoders.EncodeByType(encode.JSONEncoderType, block)
	if err != nil {
		return JournalError.New(err)
	}

	eb, err := poll.MarshalEvents(events)
	if err != nil {
		return JournalError.New(err)
	}

	rb, err := j.encoders.EncodeByType(encode.JSONEncoderType, record)
	if err != nil {
		return JournalError.New(err)
	}

	hb, err := j.encoders.EncodeByType(encode.RLPEncoderType, block.Height)
	if err != nil {
		return JournalError.New(err)
	}

	batch := j.st.Batch()
	batch.Put(heightKey(keyPrefixBlock, block.Height), bb)
	batch.Put(heightKey(keyPrefixSnapshot, block.Height), snapshot)
	batch.Put(heightKey(keyPrefixEvents, block.Height), eb)
	batch.Put(heightKey(keyPrefixRecord, block.Height), rb)
	batch.Put(keyPrefixLatest, hb)

	if err := j.st.WriteBatch(batch); err != nil {
		return JournalError.New(err)
	}

	j.Log().Debug("block stored", "height", block.Height, "root", block.Root, "operation", block.Operation)

	return nil
}

func (j *Journal) get(prefix []byte, height uint64) ([]byte, error) {
	b, err := j.st.Get(heightKey(prefix, height))
	if err != nil {
		if xerrors.Is(err, storage.RecordNotFoundError) {
			return nil, err
		}

		return nil, JournalError.New(err)
	}

	return b, nil
}

func (j *Journal) Block(height uint64) (Block, error) {
	b, err := j.get(keyPrefixBlock, height)
	if err != nil {
		return Block{}, err
	}

	var block Block
	if err := j.encoders.Decode(b, &block); err != nil {
		return Block{}, JournalError.New(err)
	}

	return block, nil
}

func (j *Journal) Snapshot(height uint64) (poll.State, error) {
	b, err := j.get(keyPrefixSnapshot, height)
	if err != nil {
		return poll.State{}, err
	}

	var st poll.State
	if err := st.UnmarshalBinary(b); err != nil {
		return poll.State{}, JournalError.New(err)
	}

	return st, nil
}

// Events returns the events of the height as they were stored.
func (j *Journal) Events(height uint64) (json.RawMessage, error) {
	b, err := j.get(keyPrefixEvents, height)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(b), nil
}

func (j *Journal) Record(height uint64) (Record, error) {
	b, err := j.get(keyPrefixRecord, height)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := j.encoders.Decode(b, &record); err != nil {
		return Record{}, JournalError.New(err)
	}

	return record, nil
}

// Blocks calls f from the genesis block by height until f returns false.
func (j *Journal) Blocks(f func(Block) bool) error {
	var err error
	iterErr := j.st.Iterator(keyPrefixBlock, false, func(_, value []byte) bool {
		var block Block
		if err = j.encoders.Decode(value, &block); err != nil {
			err = JournalError.New(err)
			return false
		}

		return f(block)
	})

	if iterErr != nil {
		return JournalError.New(iterErr)
	}

	return err
}

// Verify checks every height; the snapshot should be hashed to the root of
// the block and the blocks should be chained by their roots.
func (j *Journal) Verify(ctx context.Context) error {
	latest, found, err := j.LatestHeight()
	if err != nil {
		return err
	} else if !found {
		return NotInitializedError
	}

	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	eg, ectx := errgroup.WithContext(ctx)

	for height := uint64(0); height <= latest; height++ {
		if err := sem.Acquire(ectx, 1); err != nil {
			break
		}

		height := height
		eg.Go(func() error {
			defer sem.Release(1)

			return j.verifyHeight(height)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	j.Log().Debug("journal verified", "latest", latest)

	return nil
}

func (j *Journal) verifyHeight(height uint64) error {
	block, err := j.Block(height)
	if err != nil {
		return err
	}

	if block.Height != height {
		return JournalError.Newf("wrong block height; expected=%d height=%d", height, block.Height)
	}

	if err := block.IsValid(); err != nil {
		return err
	}

	st, err := j.Snapshot(height)
	if err != nil {
		return err
	}

	root, err := st.Root()
	if err != nil {
		return err
	} else if !root.Equal(block.Root) {
		return RootMismatchError.Newf("height=%d block=%s snapshot=%s", height, block.Root, root)
	}

	if block.IsGenesis() {
		return nil
	}

	prev, err := j.Block(height - 1)
	if err != nil {
		return err
	} else if !prev.Root.Equal(block.PrevRoot) {
		return RootMismatchError.Newf("not chained; height=%d prev_root=%s previous=%s", height, block.PrevRoot, prev.Root)
	}

	return nil
}

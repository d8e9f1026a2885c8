package ledger

import (
	"encoding/json"

	"github.com/spikeekips/partivotes/hash"
	"github.com/spikeekips/partivotes/poll"
)

// Block is the journaled result of one accepted invocation. The genesis
// block has height 0 and no previous root.
type Block struct {
	Height       uint64
	Root         hash.Hash
	PrevRoot     hash.Hash
	InvocationID string
	Operation    poll.Operation
	Now          uint64
	Events       uint
}

func (b Block) IsGenesis() bool {
	return b.Height == 0
}

func (b Block) IsValid() error {
	if err := b.Root.IsValid(); err != nil {
		return JournalError.New(err)
	}

	if b.IsGenesis() {
		if !b.PrevRoot.Empty() {
			return JournalError.Newf("genesis block has previous root")
		}

		return nil
	}

	if err := b.PrevRoot.IsValid(); err != nil {
		return JournalError.New(err)
	}

	if len(b.InvocationID) < 1 {
		return JournalError.Newf("empty invocation id; height=%d", b.Height)
	}

	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"height":        b.Height,
		"root":          b.Root,
		"invocation_id": b.InvocationID,
		"operation":     b.Operation,
		"now":           b.Now,
		"events":        b.Events,
	}

	if !b.PrevRoot.Empty() {
		m["prev_root"] = b.PrevRoot
	}

	return json.Marshal(m)
}

func (b *Block) UnmarshalJSON(body []byte) error {
	var raw struct {
		Height       uint64         `json:"height"`
		Root         hash.Hash      `json:"root"`
		PrevRoot     *hash.Hash     `json:"prev_root"`
		InvocationID string         `json:"invocation_id"`
		Operation    poll.Operation `json:"operation"`
		Now          uint64         `json:"now"`
		Events       uint           `json:"events"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}

	b.Height = raw.Height
	b.Root = raw.Root
	b.PrevRoot = hash.Hash{}
	if raw.PrevRoot != nil {
		b.PrevRoot = *raw.PrevRoot
	}
	b.InvocationID = raw.InvocationID
	b.Operation = raw.Operation
	b.Now = raw.Now
	b.Events = raw.Events

	return nil
}

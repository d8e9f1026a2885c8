package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/storage/leveldbstorage"
)

type testSubmitter struct {
	suite.Suite
	creator account.Address
	l       *Ledger
	st      *leveldbstorage.Storage
}

func (t *testSubmitter) SetupTest() {
	_, owner := newTestKey()
	_, t.creator = newTestKey()

	t.l, t.st = newTestLedger(owner, &testClock{now: testNow})
}

func (t *testSubmitter) TearDownTest() {
	_ = t.st.Close()
}

func (t *testSubmitter) TestSubmit() {
	s := NewSubmitter(t.l, 10)
	t.NoError(s.Start())
	defer s.Stop()

	count := 20

	var wg sync.WaitGroup
	wg.Add(count)

	heights := make(chan uint64, count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()

			r, err := s.Submit(context.Background(), newTestCreatePoll(t.creator))
			t.NoError(err)
			heights <- r.Height
		}()
	}

	wg.Wait()
	close(heights)

	seen := map[uint64]bool{}
	for h := range heights {
		t.False(seen[h])
		seen[h] = true
	}
	t.Equal(count, len(seen))
	t.Equal(uint64(count), t.l.Height())
	t.Equal(uint64(count), t.l.State().Counter())
}

func (t *testSubmitter) TestSubmitStopped() {
	s := NewSubmitter(t.l, 1)

	_, err := s.Submit(context.Background(), newTestCreatePoll(t.creator))
	t.True(xerrors.Is(err, SubmitterClosedError))
}

func (t *testSubmitter) TestSubmitTimeout() {
	s := NewSubmitter(t.l, 1)
	t.NoError(s.Start())
	defer s.Stop()

	t.l.Lock() // the ledger is busy

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()

	_, err := s.Submit(ctx, newTestCreatePoll(t.creator))
	t.True(xerrors.Is(err, context.DeadlineExceeded))

	t.l.Unlock()
}

func TestSubmitter(t *testing.T) {
	suite.Run(t, new(testSubmitter))
}

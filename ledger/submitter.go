package ledger

import (
	"context"

	"github.com/spikeekips/partivotes/common"
)

type submission struct {
	invocation Invocation
	result     chan submitted
}

type submitted struct {
	receipt Receipt
	err     error
}

// Submitter queues the invocations from many callers and hands them to the
// ledger in arrival order.
type Submitter struct {
	*common.Logger
	ledger *Ledger
	queue  chan interface{}
	daemon *common.ReaderDaemon
}

func NewSubmitter(ledger *Ledger, size uint) *Submitter {
	s := &Submitter{
		Logger: common.NewLogger(log, "module", "submitter"),
		ledger: ledger,
		queue:  make(chan interface{}, size),
	}

	s.daemon = common.NewReaderDaemon(true, s.queue, s.handle)

	return s
}

func (s *Submitter) Start() error {
	return s.daemon.Start()
}

func (s *Submitter) Stop() error {
	return s.daemon.Stop()
}

func (s *Submitter) handle(v interface{}) error {
	sub, ok := v.(submission)
	if !ok {
		return InvalidInvocationError.Newf("not submission; %T", v)
	}

	receipt, err := s.ledger.Invoke(sub.invocation)
	sub.result <- submitted{receipt: receipt, err: err}

	return nil
}

// Submit waits until the invocation is processed or ctx is done. When ctx is
// done after the invocation was queued, the invocation may still be applied.
func (s *Submitter) Submit(ctx context.Context, iv Invocation) (Receipt, error) {
	if s.daemon.IsStopped() {
		return Receipt{}, SubmitterClosedError
	}

	sub := submission{invocation: iv, result: make(chan submitted, 1)}

	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case s.queue <- sub:
	}

	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case r := <-sub.result:
		return r.receipt, r.err
	}
}

package common

import (
	"sync"
)

const (
	DaemonAlreadyStartedErrorCode ErrorCode = iota + 1
	DaemonNotStartedErrorCode
)

var (
	DaemonAlreadyStartedError = NewError("daemon", DaemonAlreadyStartedErrorCode, "daemon already started")
	DaemonNotStartedError     = NewError("daemon", DaemonNotStartedErrorCode, "daemon not started")
)

// ReaderDaemon reads values from the reader channel and hands them to the
// callback. With synchronous, callbacks run one at a time in arrival order.
type ReaderDaemon struct {
	sync.RWMutex
	*Logger

	synchronous    bool
	stop           chan struct{}
	stopped        chan struct{}
	reader         chan interface{}
	readerCallback func(interface{}) error
	errCallback    func(error)
}

func NewReaderDaemon(synchronous bool, reader chan interface{}, readerCallback func(interface{}) error) *ReaderDaemon {
	return &ReaderDaemon{
		Logger:         NewLogger(log, "module", "reader-daemon"),
		synchronous:    synchronous,
		reader:         reader,
		readerCallback: readerCallback,
	}
}

func (d *ReaderDaemon) SetErrCallback(errCallback func(error)) *ReaderDaemon {
	d.Lock()
	defer d.Unlock()

	d.errCallback = errCallback

	return d
}

func (d *ReaderDaemon) Start() error {
	d.Lock()
	defer d.Unlock()

	if d.stop != nil {
		return DaemonAlreadyStartedError
	}

	d.stop = make(chan struct{})
	d.stopped = make(chan struct{})

	go d.loop(d.stop, d.stopped)

	return nil
}

func (d *ReaderDaemon) Stop() error {
	d.Lock()
	if d.stop == nil {
		d.Unlock()
		return DaemonNotStartedError
	}

	close(d.stop)
	stopped := d.stopped
	d.stop = nil
	d.Unlock()

	<-stopped

	return nil
}

func (d *ReaderDaemon) IsStopped() bool {
	d.RLock()
	defer d.RUnlock()

	return d.stop == nil
}

func (d *ReaderDaemon) loop(stop, stopped chan struct{}) {
	defer close(stopped)

	var wg sync.WaitGroup
	defer wg.Wait()

end:
	for {
		select {
		case <-stop:
			break end
		case v, notClosed := <-d.reader:
			if !notClosed {
				break end
			}

			if d.synchronous {
				d.runCallback(v)
			} else {
				wg.Add(1)
				go func() {
					defer wg.Done()
					d.runCallback(v)
				}()
			}
		}
	}
}

func (d *ReaderDaemon) runCallback(v interface{}) {
	d.RLock()
	callback, errCallback := d.readerCallback, d.errCallback
	d.RUnlock()

	if callback == nil {
		return
	}

	if err := callback(v); err != nil {
		d.Log().Error("error occurred", "error", err)
		if errCallback != nil {
			errCallback(err)
		}
	}
}

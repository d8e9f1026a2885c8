package common

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
)

const (
	TIMEFORMAT_ISO8601 string = "2006-01-02T15:04:05.000000000Z07:00"
)

var (
	timeSyncerLock sync.RWMutex
	timeSyncer     *TimeSyncer
)

func FormatISO8601(t time.Time) string {
	return t.Format(TIMEFORMAT_ISO8601)
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(TIMEFORMAT_ISO8601, s)
}

// Now returns the local time adjusted by the offset of the registered
// TimeSyncer, if any.
func Now() time.Time {
	timeSyncerLock.RLock()
	defer timeSyncerLock.RUnlock()

	if timeSyncer == nil {
		return time.Now()
	}

	return time.Now().Add(timeSyncer.Offset())
}

// Millis converts to unix milliseconds, the timestamp unit of the ledger.
func Millis(t time.Time) uint64 {
	if t.UnixNano() < 0 {
		return 0
	}

	return uint64(t.UnixNano() / int64(time.Millisecond))
}

func FromMillis(ms uint64) time.Time {
	return time.Unix(0, int64(ms)*int64(time.Millisecond)).UTC()
}

type TimeSyncer struct {
	sync.RWMutex
	*Logger
	server   string
	offset   time.Duration
	stopChan chan bool
	interval time.Duration
}

func NewTimeSyncer(server string, checkInterval time.Duration) (*TimeSyncer, error) {
	if _, err := ntp.Query(server); err != nil {
		return nil, err
	}

	return &TimeSyncer{
		Logger: NewLogger(
			log,
			"module", "time-syncer",
			"server", server,
			"interval", checkInterval,
		),
		server:   server,
		interval: checkInterval,
	}, nil
}

func SetTimeSyncer(syncer *TimeSyncer) {
	timeSyncerLock.Lock()
	defer timeSyncerLock.Unlock()

	timeSyncer = syncer
	log.Debug("common.timeSyncer is set")
}

func (s *TimeSyncer) Start() error {
	s.Lock()
	if s.stopChan != nil {
		s.Unlock()
		return DaemonAlreadyStartedError.Newf("time-syncer")
	}

	stopChan := make(chan bool)
	s.stopChan = stopChan
	s.Unlock()

	s.check()

	go s.schedule(stopChan)

	s.Log().Debug("started")

	return nil
}

func (s *TimeSyncer) Stop() error {
	s.Lock()
	defer s.Unlock()

	if s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}

	s.Log().Debug("stopped")
	return nil
}

func (s *TimeSyncer) schedule(stopChan chan bool) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

end:
	for {
		select {
		case <-stopChan:
			break end
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *TimeSyncer) Offset() time.Duration {
	s.RLock()
	defer s.RUnlock()

	return s.offset
}

func (s *TimeSyncer) check() {
	response, err := ntp.Query(s.server)
	if err != nil {
		s.Log().Error("failed to query", "error", err)
		return
	}

	if err := response.Validate(); err != nil {
		s.Log().Error("failed to validate response", "error", err)
		return
	}

	s.Lock()
	s.offset = response.ClockOffset
	s.Unlock()

	s.Log().Debug("time checked", "offset", response.ClockOffset)
}

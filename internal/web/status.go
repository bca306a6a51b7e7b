package web

import (
	"sync/atomic"
	"time"
)

// Status collects ingest counters for the /api/status endpoint. All
// fields are updated atomically from the ingest loop and read by HTTP
// handlers.
type Status struct {
	startUnixNano int64
	datagrams     uint64
	parseErrors   uint64
	observations  uint64
	lastRecvNano  int64
	source        atomic.Value // string
	lastError     atomic.Value // string
}

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.source.Store("")
	s.lastError.Store("")
	return s
}

func (s *Status) SetSource(src string) {
	s.source.Store(src)
}

func (s *Status) MarkDatagram(nowUTC time.Time) {
	atomic.AddUint64(&s.datagrams, 1)
	atomic.StoreInt64(&s.lastRecvNano, nowUTC.UnixNano())
}

func (s *Status) MarkParseError(msg string) {
	atomic.AddUint64(&s.parseErrors, 1)
	s.lastError.Store(msg)
}

func (s *Status) MarkObservations(n int) {
	if n > 0 {
		atomic.AddUint64(&s.observations, uint64(n))
	}
}

type StatusSnapshot struct {
	Service      string            `json:"service"`
	NowUTC       string            `json:"now_utc"`
	UptimeSec    int64             `json:"uptime_sec"`
	Source       string            `json:"source,omitempty"`
	Datagrams    uint64            `json:"datagrams_total"`
	ParseErrors  uint64            `json:"parse_errors_total"`
	Observations uint64            `json:"observations_total"`
	LastRecvUTC  string            `json:"last_recv_utc,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
	Subscribers  int               `json:"subscribers"`
	Metrics      map[string]string `json:"metrics,omitempty"`
}

func (s *Status) Snapshot(nowUTC time.Time) StatusSnapshot {
	start := atomic.LoadInt64(&s.startUnixNano)
	out := StatusSnapshot{
		Service:      "nmea2web",
		NowUTC:       nowUTC.Format(time.RFC3339Nano),
		UptimeSec:    int64(nowUTC.Sub(time.Unix(0, start)).Seconds()),
		Source:       s.source.Load().(string),
		Datagrams:    atomic.LoadUint64(&s.datagrams),
		ParseErrors:  atomic.LoadUint64(&s.parseErrors),
		Observations: atomic.LoadUint64(&s.observations),
		LastError:    s.lastError.Load().(string),
	}
	if last := atomic.LoadInt64(&s.lastRecvNano); last != 0 {
		out.LastRecvUTC = time.Unix(0, last).UTC().Format(time.RFC3339Nano)
	}
	return out
}

// Package ingest owns the single path from "datagram arrived" to "state
// updated and broadcast triggered".
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"nmea2web/internal/metric"
	"nmea2web/internal/nmea"
)

// Publisher receives one formatted update per applied observation.
// *web.Hub satisfies it.
type Publisher interface {
	Publish(key metric.Key, formatted string)
}

// Recorder collects ingest counters for diagnostics. *web.Status
// satisfies it.
type Recorder interface {
	MarkDatagram(nowUTC time.Time)
	MarkParseError(msg string)
	MarkObservations(n int)
}

type Config struct {
	// Source is "udp" or "serial".
	Source string

	// UDPPort applies to Source=="udp".
	UDPPort int

	// Device and Baud apply to Source=="serial".
	Device string
	Baud   int
}

// Service drives the ingest loop. It is the sole writer of the metric
// store; bad input never terminates the loop.
type Service struct {
	cfg   Config
	store *metric.Store
	pub   Publisher
	rec   Recorder

	// Injection points for socket-free tests.
	listenPacket func(port int) (net.PacketConn, error)
	openSerial   func(device string, baud int) (io.ReadCloser, error)
	now          func() time.Time
}

func New(cfg Config, store *metric.Store, pub Publisher, rec Recorder) *Service {
	return &Service{
		cfg:   cfg,
		store: store,
		pub:   pub,
		rec:   rec,
		listenPacket: func(port int) (net.PacketConn, error) {
			return net.ListenUDP("udp", &net.UDPAddr{Port: port})
		},
		openSerial: openSerial,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run receives sentences until ctx is cancelled or the socket dies.
func (s *Service) Run(ctx context.Context) error {
	switch strings.ToLower(strings.TrimSpace(s.cfg.Source)) {
	case "", "udp":
		return s.runUDP(ctx)
	case "serial":
		return s.runSerial(ctx)
	default:
		return fmt.Errorf("ingest: unknown source %q", s.cfg.Source)
	}
}

func (s *Service) runUDP(ctx context.Context) error {
	conn, err := s.listenPacket(s.cfg.UDPPort)
	if err != nil {
		return fmt.Errorf("ingest: listen udp port %d: %w", s.cfg.UDPPort, err)
	}
	// Closing the socket is the only way to interrupt a blocked read.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer func() { _ = conn.Close() }()

	log.Printf("ingest listening udp port=%d", s.cfg.UDPPort)

	buf := make([]byte, 4096)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("ingest: udp read: %w", err)
		}
		s.handle(string(buf[:n]))
	}
}

func (s *Service) runSerial(ctx context.Context) error {
	rc, err := s.openSerial(s.cfg.Device, s.cfg.Baud)
	if err != nil {
		return fmt.Errorf("ingest: open serial device=%s baud=%d: %w", s.cfg.Device, s.cfg.Baud, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = rc.Close() })
	defer stop()
	defer func() { _ = rc.Close() }()

	log.Printf("ingest reading serial device=%s baud=%d", s.cfg.Device, s.cfg.Baud)

	scanner := bufio.NewScanner(rc)
	// NMEA sentences are typically < 82 chars, but allow some headroom.
	scanner.Buffer(make([]byte, 0, 256), 4096)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.handle(line)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	err = scanner.Err()
	if err == nil {
		err = io.EOF
	}
	return fmt.Errorf("ingest: serial read stopped: %w", err)
}

// handle runs one payload through decode, extract, smooth and publish.
// Decode failures are recorded and otherwise ignored.
func (s *Service) handle(raw string) {
	now := s.now()
	if s.rec != nil {
		s.rec.MarkDatagram(now)
	}

	sent, err := nmea.Parse(raw)
	if err != nil {
		if s.rec != nil {
			s.rec.MarkParseError(err.Error())
		}
		return
	}

	obs := nmea.Extract(sent)
	for _, o := range obs {
		v := s.store.Update(o.Key, o.Value, now)
		s.pub.Publish(o.Key, metric.Format(o.Key, v))
	}
	if s.rec != nil {
		s.rec.MarkObservations(len(obs))
	}
}

package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nmea2web/internal/config"
	"nmea2web/internal/ingest"
	"nmea2web/internal/metric"
	"nmea2web/internal/web"
)

func main() {
	var (
		configPath string
		udpPort    int
		webAddr    string
		tau        float64
		display    string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (optional)")
	flag.IntVar(&udpPort, "udp-port", 0, "UDP port to listen for NMEA sentences (overrides config)")
	flag.StringVar(&webAddr, "web-addr", "", "HTTP/WebSocket listen address (overrides config)")
	flag.Float64Var(&tau, "tau", -1, "Smoothing time constant in seconds, 0 disables smoothing (overrides config)")
	flag.StringVar(&display, "display", "", "Comma-separated metric keys to display (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if udpPort != 0 {
		cfg.UDPPort = udpPort
	}
	if webAddr != "" {
		cfg.WebAddr = webAddr
	}
	if tau >= 0 {
		cfg.TauSeconds = tau
	}
	if display != "" {
		cfg.DisplayKeys = strings.Split(display, ",")
	}
	if err := cfg.Finalize(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logs := web.NewLogBuffer(cfg.LogLines)
	log.SetOutput(io.MultiWriter(os.Stderr, logs))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := metric.NewStore(time.Duration(cfg.TauSeconds * float64(time.Second)))
	hub := web.NewHub(store)
	status := web.NewStatus()
	status.SetSource(cfg.Ingest.Source)

	displayKeys := make([]metric.Key, 0, len(cfg.DisplayKeys))
	for _, k := range cfg.DisplayKeys {
		displayKeys = append(displayKeys, metric.Key(k))
	}
	handler, err := web.Handler(hub, store, status, logs, displayKeys)
	if err != nil {
		log.Fatalf("web handler init failed: %v", err)
	}

	svc := ingest.New(ingest.Config{
		Source:  cfg.Ingest.Source,
		UDPPort: cfg.UDPPort,
		Device:  cfg.Ingest.Device,
		Baud:    cfg.Ingest.Baud,
	}, store, hub, status)

	log.Printf("nmea2web starting")
	log.Printf("udp port=%d web addr=%s tau=%.2fs display=%s",
		cfg.UDPPort, cfg.WebAddr, cfg.TauSeconds, strings.Join(cfg.DisplayKeys, ","))

	go func() {
		err := svc.Run(ctx)
		if err != nil && ctx.Err() == nil {
			log.Printf("ingest stopped: %v", err)
			cancel()
		}
	}()

	go func() {
		err := web.Serve(ctx, cfg.WebAddr, handler)
		if err != nil && ctx.Err() == nil {
			log.Printf("web server stopped: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Printf("nmea2web stopping")
}

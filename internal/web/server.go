package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nmea2web/internal/metric"
)

//go:embed assets/index.html.tmpl
var embeddedAssets embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served off the same host; no origin policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type pageCell struct {
	Key         metric.Key
	Label       string
	Placeholder string
}

type pageData struct {
	Columns int
	Cells   []pageCell
}

// renderPage builds the dashboard HTML once at startup from the
// configured display keys. Key validity was checked during config load.
func renderPage(displayKeys []metric.Key) ([]byte, error) {
	tmpl, err := template.ParseFS(embeddedAssets, "assets/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	data := pageData{Columns: len(displayKeys)}
	if data.Columns > 4 {
		data.Columns = 4
	}
	for _, key := range displayKeys {
		def := metric.Defs[key]
		data.Cells = append(data.Cells, pageCell{
			Key:         key,
			Label:       def.Label,
			Placeholder: "–" + def.Unit,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page template: %w", err)
	}
	return buf.Bytes(), nil
}

// Handler wires the dashboard page, the WebSocket push endpoint, and the
// small diagnostic API.
func Handler(hub *Hub, store *metric.Store, status *Status, logs *LogBuffer, displayKeys []metric.Key) (http.Handler, error) {
	page, err := renderPage(displayKeys)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			return
		}
		hub.serve(conn)
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := status.Snapshot(time.Now().UTC())
		snap.Subscribers = hub.Count()
		snap.Metrics = make(map[string]string)
		for key, v := range store.Snapshot() {
			snap.Metrics[string(key)] = metric.Format(key, v)
		}
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			http.Error(w, "marshal failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		_, _ = w.Write([]byte("\n"))
	})

	if logs != nil {
		mux.Handle("/api/logs", logs.Handler())
	}

	mux.Handle("/api/about", AboutHandler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	return mux, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, listenAddr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

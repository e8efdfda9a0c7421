package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/beledshul/sponsorship/internal/core/events"
)

// Stream fans catalog and ledger change events out to connected browsers
// over Server-Sent Events, replacing the original app's document-store
// snapshot subscription.
type Stream struct {
	logger  *slog.Logger
	mu      sync.Mutex
	clients map[chan events.Event]struct{}
}

func NewStream(bus *events.EventBus, logger *slog.Logger) *Stream {
	s := &Stream{
		logger:  logger,
		clients: make(map[chan events.Event]struct{}),
	}
	bus.Subscribe(events.TypeAny, s.broadcast)
	return s
}

// broadcast delivers to every connected client without blocking: a client
// that cannot keep up loses events and is expected to refetch on reconnect.
func (s *Stream) broadcast(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.clients {
		select {
		case ch <- event:
		default:
			s.logger.Warn("dropping event for slow SSE client", "event_type", event.EventType())
		}
	}
	return nil
}

func (s *Stream) register() chan events.Event {
	ch := make(chan events.Event, 16)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Stream) unregister(ch chan events.Event) {
	s.mu.Lock()
	delete(s.clients, ch)
	s.mu.Unlock()
}

// ServeHTTP holds the connection open and writes one SSE frame per event.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.register()
	defer s.unregister(ch)

	s.logger.Debug("sse client connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("sse client disconnected", "remote", r.RemoteAddr)
			return
		case event := <-ch:
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("failed to marshal event for SSE", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\n", event.EventType())
			fmt.Fprintf(w, "id: %s\n", event.EventID())
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

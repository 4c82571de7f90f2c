package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/realtime"
)

const (
	keepaliveInterval = 15 * time.Second

	// sendBuffer absorbs publish bursts while a frame is being written. A
	// subscriber whose buffer is full when an event arrives panics inside the
	// bus callback and the bus drops it; the slow client reconnects and gets
	// fresh state. No replay, so nothing else to do for it.
	sendBuffer = 64
)

// RealtimeHandler streams bus events to clients over server-sent events.
type RealtimeHandler struct {
	bus *realtime.Bus
	log *logger.Logger
}

func NewRealtimeHandler(bus *realtime.Bus, log *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{bus: bus, log: log}
}

func (h *RealtimeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := make(chan realtime.Event, sendBuffer)
	unsubscribe := h.bus.Subscribe(func(evt realtime.Event) {
		select {
		case events <- evt:
		default:
			panic("subscriber buffer overflow")
		}
	})
	defer unsubscribe()

	h.log.Debug("realtime_connected", map[string]any{"remote": r.RemoteAddr, "subscribers": h.bus.Len()})

	hello := realtime.Event{Type: realtime.EventConnected, TS: time.Now().UnixMilli()}
	if err := writeEvent(w, hello); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug("realtime_disconnected", map[string]any{"remote": r.RemoteAddr})
			return
		case evt := <-events:
			if err := writeEvent(w, evt); err != nil {
				return
			}
			flusher.Flush()
		case t := <-keepalive.C:
			if _, err := fmt.Fprintf(w, ": ping %d\n\n", t.UnixMilli()); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, evt realtime.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

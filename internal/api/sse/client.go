package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one connected event stream
type Client struct {
	remote      string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client
func NewClient(remote string) *Client {
	return &Client{
		remote:      remote,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams hub messages to w until the request ends or the hub
// closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The server's write timeout would otherwise cut long streams
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(r.RemoteAddr)
	if !hub.Register(client) {
		http.Error(w, "Stream closed", http.StatusGone)
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage("connected", `{"game_id":"`+string(hub.gameID)+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

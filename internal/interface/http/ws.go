package http

import (
	"encoding/json"
	"net/http"

	"golang.org/x/net/websocket"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEBSOCKET EVENT STREAM
// Each connection gets its own hub listener. Delivery is best effort: a
// client that stops reading fills its buffer and the hub evicts it, which
// surfaces here as a closed Done channel.
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) websocketHandler() http.Handler {
	return websocket.Server{
		// Accept any origin; the CORS policy is enforced by the REST
		// middleware and the stream carries no per-user data.
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler:   websocket.Handler(s.serveEventStream),
	}
}

func (s *Server) serveEventStream(conn *websocket.Conn) {
	defer conn.Close()

	listener := s.deps.Hub.Subscribe()
	defer s.deps.Hub.Unsubscribe(listener)

	s.logger.Info("event stream connected", "listener_id", listener.ID())
	defer s.logger.Info("event stream disconnected", "listener_id", listener.ID())

	// Drain inbound frames so client pings and close frames are
	// processed. Any payload the client sends is ignored.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		var discard string
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case env, ok := <-listener.Events():
			if !ok {
				return
			}
			payload, err := json.Marshal(env)
			if err != nil {
				s.logger.Error("event stream marshal failed", "error", err, "type", env.Type)
				continue
			}
			if err := websocket.Message.Send(conn, string(payload)); err != nil {
				return
			}
		case <-listener.Done():
			// Evicted as a slow consumer or the hub shut down.
			return
		case <-clientGone:
			return
		}
	}
}

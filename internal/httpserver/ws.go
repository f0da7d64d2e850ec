// internal/httpserver/ws.go
//
// Live transport for one game.
// A client connects to /game/{id}/ws, receives a "snapshot" event, then sends
// {"text": "..."} frames (guesses, or the hint token). Every turn that changes
// the game is pushed to all viewers of that game as a "turn" event.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 120 * time.Second
	wsPingPeriod = 30 * time.Second
	wsMaxMessage = 1024
)

// wsIn is a client frame.
type wsIn struct {
	Text string `json:"text"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	s.track(conn, true)

	events, snap, unsubscribe := sess.subscribe()
	// outbound carries replies to this connection only (errors); events from
	// the session are merged in writePump.
	outbound := make(chan event, 4)

	done := make(chan struct{})
	written := make(chan struct{})
	go func() {
		defer close(written)
		s.writePump(conn, event{Type: "snapshot", Snapshot: &snap}, events, outbound, done)
	}()

	log.Info().Str("game", sess.ID()).Str("player", sess.Player).Msg("viewer connected")
	s.readPump(r, conn, sess, outbound)

	close(done)
	<-written
	unsubscribe()
	s.track(conn, false)
	_ = conn.Close()
	log.Info().Str("game", sess.ID()).Msg("viewer disconnected")
}

// readPump applies inbound frames until the connection fails.
func (s *Server) readPump(r *http.Request, conn *websocket.Conn, sess *Session, outbound chan<- event) {
	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("ws read")
			}
			return
		}
		var in wsIn
		if err := json.Unmarshal(data, &in); err != nil {
			select {
			case outbound <- event{Type: "error", Error: "bad_json"}:
			default:
			}
			continue
		}
		// The turn itself reaches this viewer through the subscription.
		sess.submit(r.Context(), in.Text)
	}
}

// writePump is the only writer on conn. first is written before any session
// event.
func (s *Server) writePump(conn *websocket.Conn, first event, events <-chan event, outbound <-chan event, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	write := func(ev event) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(ev); err != nil {
			log.Debug().Err(err).Msg("ws write")
			_ = conn.Close() // unblocks readPump
			return false
		}
		return true
	}
	if !write(first) {
		return
	}

	for {
		select {
		case <-done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case ev := <-outbound:
			if !write(ev) {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !write(ev) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (s *Server) track(conn *websocket.Conn, add bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// internal/httpserver/games.go
//
// Game and progress endpoints, and Session: one hosted game shared by the
// HTTP handlers and any WebSocket viewers of the same game.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/onebit/internal/game"
	"github.com/robalobadob/onebit/internal/progress"
	"github.com/robalobadob/onebit/internal/store"
)

// event is pushed to WebSocket viewers and returned by the turn endpoints.
type event struct {
	Type     string         `json:"type"` // "snapshot" | "turn" | "error"
	Outcome  game.Outcome   `json:"outcome,omitempty"`
	Appended []game.Message `json:"appended,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Session serializes access to one game and fans out its updates.
// A session expires after idle without a turn, or grace after it finishes,
// unless a viewer is still connected.
type Session struct {
	Player string

	mu     sync.Mutex
	game   *game.Game
	subs   map[chan event]struct{}
	expiry *time.Timer
	idle   time.Duration
	grace  time.Duration
	gone   func()
}

func newSession(player string, g *game.Game, idle, grace time.Duration, gone func()) *Session {
	s := &Session{
		Player: player,
		game:   g,
		subs:   make(map[chan event]struct{}),
		idle:   idle,
		grace:  grace,
		gone:   gone,
	}
	s.mu.Lock()
	s.expiry = time.AfterFunc(idle, s.expire)
	s.mu.Unlock()
	return s
}

func (s *Session) expire() {
	s.mu.Lock()
	if len(s.subs) > 0 {
		s.expiry.Reset(s.idle)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.gone()
}

// stop cancels a pending expiry.
func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry.Stop()
}

// ID is the id of the hosted game.
func (s *Session) ID() string { return s.game.ID }

// submit applies one line of input and broadcasts the result when something
// happened.
func (s *Session) submit(ctx context.Context, text string) event {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, appended := s.game.SubmitGuess(ctx, text)
	snap := s.game.Snapshot()
	ev := event{Type: "turn", Outcome: outcome, Appended: appended, Snapshot: &snap}
	if outcome != game.OutcomeIgnored {
		if snap.Phase == game.PhaseFinished {
			s.expiry.Reset(s.grace)
		} else {
			s.expiry.Reset(s.idle)
		}
		s.broadcast(ev)
	}
	return ev
}

func (s *Session) snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// subscribe registers a viewer. The snapshot is taken under the same lock so
// no update can fall between it and the first event on the channel.
func (s *Session) subscribe() (<-chan event, game.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan event, 16)
	s.subs[ch] = struct{}{}
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, s.game.Snapshot(), cancel
}

// broadcast must be called with mu held. Slow viewers miss events rather
// than stall the game.
func (s *Session) broadcast(ev event) {
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("game", s.game.ID).Msg("viewer too slow; dropping event")
		}
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameRes is the payload of POST /game/new.
type newGameRes struct {
	GameID   string        `json:"gameId"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleNewGame starts a session for the current player. Accepts query
// parameters n and new, or a JSON body {limit, reset}.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	st, err := startup(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	player := playerID(r)

	opts := game.Options{
		Limit:    st.Limit,
		Reset:    st.Reset,
		Dividers: s.opts.Dividers,
	}
	if s.opts.KV != nil {
		opts.Progress = progress.NewPlayerTracker(s.opts.KV, player)
	}
	if s.opts.NewRand != nil {
		opts.Rand = s.opts.NewRand()
	}

	g, err := game.New(r.Context(), s.opts.Puzzles, opts)
	if err != nil {
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "no_puzzles")
		return
	}
	id := g.ID
	sess := newSession(player, g, s.opts.SessionTTL, s.opts.FinishedTTL, func() { s.dropSession(id) })
	if err := s.sessions.Save(r.Context(), id, sess); err != nil {
		sess.stop()
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("game", g.ID).Str("player", player).Int("puzzles", g.Snapshot().Session).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Snapshot: g.Snapshot()})
}

// dropSession forgets an expired game.
func (s *Server) dropSession(id string) {
	if err := s.sessions.Delete(context.Background(), id); err != nil {
		log.Warn().Err(err).Str("game", id).Msg("drop session")
		return
	}
	log.Debug().Str("game", id).Msg("session expired")
}

// turnReq is the payload of POST /game/guess and POST /game/hint.
type turnReq struct {
	GameID string `json:"gameId"`
	Text   string `json:"text"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	s.handleTurn(w, r, false)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	s.handleTurn(w, r, true)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request, hint bool) {
	var req turnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.lookup(w, r, req.GameID)
	if !ok {
		return
	}
	text := req.Text
	if hint {
		text = game.HintToken
	}
	writeJSON(w, http.StatusOK, sess.submit(r.Context(), text))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.snapshot())
}

// lookup finds a session owned by the current player. Other players' games
// are reported as missing.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, id string) (*Session, bool) {
	sess, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && sess.Player != playerID(r)) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("game", id).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return sess, true
}

// ---------------------------- PROGRESS -------------------------------------

type progressRes struct {
	Solved int `json:"solved"`
	Total  int `json:"total"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	solved := 0
	if s.opts.KV != nil {
		set, err := progress.NewPlayerTracker(s.opts.KV, playerID(r)).Load(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("load progress")
		}
		solved = set.Size()
	}
	writeJSON(w, http.StatusOK, progressRes{Solved: solved, Total: len(s.opts.Puzzles)})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	if s.opts.KV != nil {
		if err := progress.NewPlayerTracker(s.opts.KV, playerID(r)).Clear(r.Context()); err != nil {
			log.Error().Err(err).Msg("reset progress")
			writeError(w, http.StatusInternalServerError, "reset_failed")
			return
		}
	}
	writeJSON(w, http.StatusOK, progressRes{Solved: 0, Total: len(s.opts.Puzzles)})
}

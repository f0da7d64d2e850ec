// internal/httpserver/server.go
//
// HTTP host for one-bit sessions.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     JSON content type, CORS, request logging).
//   - Public endpoints: "/", "/health", "/debug/puzzles".
//   - Game endpoints: POST /game/new, /game/guess, /game/hint; GET /game/{id}.
//   - Live transport: GET /game/{id}/ws (see ws.go).
//   - Progress endpoints: GET /progress, POST /progress/reset.
//
// Notes:
//   - Every request carries a player id from a signed cookie (see session.go);
//     games are only visible to the player who started them.
//   - Games live in memory and expire when idle or some time after they
//     finish; the solved set of each player is persisted through
//     the progress KV under "onebit-solved:<player>".
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/onebit/internal/config"
	"github.com/robalobadob/onebit/internal/game"
	"github.com/robalobadob/onebit/internal/progress"
	"github.com/robalobadob/onebit/internal/store"
)

// Options configures a Server.
type Options struct {
	Puzzles  []game.Puzzle
	KV       progress.KV
	Sessions store.Store[*Session] // nil = in-memory
	Dividers bool

	// SessionTTL drops a game after this long without a turn; FinishedTTL
	// drops it this long after its last puzzle is solved.
	SessionTTL  time.Duration
	FinishedTTL time.Duration

	JWTSecret     string
	TokenTTL      time.Duration
	CookieName    string
	SecureCookies bool
	ClientOrigin  string

	// NewRand seeds each new game. Nil uses a time-seeded source.
	NewRand func() *rand.Rand
}

// Server bundles router, live sessions and the progress store.
type Server struct {
	r        *chi.Mux
	http     *http.Server
	opts     Options
	sessions store.Store[*Session]
	upgrader websocket.Upgrader

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Sessions == nil {
		opts.Sessions = store.NewMemoryStore[*Session]()
	}
	if opts.CookieName == "" {
		opts.CookieName = "onebit_token"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.FinishedTTL <= 0 {
		opts.FinishedTTL = 10 * time.Minute
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 180 * 24 * time.Hour
	}

	s := &Server{
		r:        chi.NewRouter(),
		opts:     opts,
		sessions: opts.Sessions,
		conns:    make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.http = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // zerolog access log
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "onebit",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "POST /game/hint", "GET /game/{id}", "GET /game/{id}/ws", "GET /progress"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/puzzles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"puzzles": len(s.opts.Puzzles), "sessions": s.sessions.Len()})
	})

	// --- player routes ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/guess", s.handleGuess)
			r.Post("/game/hint", s.handleHint)
			r.Get("/game/{id}", s.handleGetGame)
			r.Get("/progress", s.handleProgress)
			r.Post("/progress/reset", s.handleResetProgress)
		})

		// long-lived; no handler timeout
		r.Get("/game/{id}/ws", s.handleWS)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes live WebSocket connections and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.connMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connMu.Unlock()
	return s.http.Shutdown(ctx)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Str("reqId", chimw.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// checkOrigin accepts same-host requests and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.opts.ClientOrigin {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// ------------------------------- helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// startup merges query parameters (n, new) with an optional JSON body.
// Body fields win when present.
func startup(r *http.Request) (config.Startup, error) {
	st := config.ParseStartup(r.URL.Query())
	var body struct {
		Limit *int  `json:"limit"`
		Reset *bool `json:"reset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return st, err
	}
	if body.Limit != nil {
		st.Limit = *body.Limit
	}
	if body.Reset != nil {
		st.Reset = *body.Reset
	}
	return st, nil
}

package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/onebit/internal/daily"
	"github.com/robalobadob/onebit/internal/httpserver"
)

var (
	servePort  string
	serveDaily bool
)

// serveCmd hosts sessions over HTTP and WebSocket.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over HTTP and WebSocket",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default: server.port)")
	serveCmd.Flags().BoolVar(&serveDaily, "daily", false, "Every game uses today's puzzle order")
	serveCmd.Flags().BoolVar(&playEphemeral, "ephemeral", false, "Keep progress in memory only")
}

func runServe(cmd *cobra.Command, args []string) error {
	if playEphemeral {
		cfg.Storage.Ephemeral = true
	}
	port := cfg.Server.Port
	if servePort != "" {
		port = servePort
	}

	set, err := loadPuzzles(cfg)
	if err != nil {
		return err
	}
	kv, closeKV, err := openProgress(cfg)
	if err != nil {
		return err
	}
	defer closeKV()

	opts := httpserver.Options{
		Puzzles:       set,
		KV:            kv,
		Dividers:      cfg.Game.Dividers,
		JWTSecret:     cfg.Server.JWTSecret,
		TokenTTL:      cfg.TokenTTL(),
		CookieName:    cfg.Server.CookieName,
		SecureCookies: cfg.Server.SecureCookies,
		ClientOrigin:  cfg.Server.ClientOrigin,
	}
	if serveDaily {
		salt := cfg.Game.DailySalt
		opts.NewRand = func() *rand.Rand { return daily.Rand(time.Now(), salt) }
	}
	srv := httpserver.New(opts)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		log.Info().Str("port", port).Int("puzzles", len(set)).Msg("starting onebit server")
		return srv.Start(":" + port)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

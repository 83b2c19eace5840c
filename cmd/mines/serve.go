package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/minesweeper/internal/leaderboard"
	"github.com/vovakirdan/minesweeper/internal/storage"
)

var (
	flagServeAddr string
	flagServeTopN int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a leaderboard server",
	Long: `Start an HTTP server that accepts winning times and serves the
standings.

  POST /leaderboard  {"username": "...", "time": 42, "mode": "beginner"} -> 201
  GET  /leaderboard  {"beginner": [...], "advanced": [...], "pro": [...]} -> 200

Times are stored in the database given by --db / storage.db_path.

Examples:
  mines serve
  mines serve --addr :8080 --top 20
  mines serve --db ./leaderboard.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().IntVar(&flagServeTopN, "top", 0, "Entries per difficulty (overrides server.top_n)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := appConfig.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	topN := appConfig.Server.TopN
	if flagServeTopN > 0 {
		topN = flagServeTopN
	}

	store, err := storage.Open(appConfig.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	srvLogger := logger.WithPrefix("mines-serve")
	lb := leaderboard.NewServer(store, leaderboard.ServerOptions{
		TopN:           topN,
		AllowedOrigins: appConfig.Server.AllowedOrigins,
		Logger:         srvLogger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:         addr,
		Handler:      lb.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	srvLogger.Info("ready to serve", "addr", addr, "top", topN)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	srvLogger.Info("stopped")
	return nil
}

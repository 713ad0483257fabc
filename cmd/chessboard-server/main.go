// Command chessboard-server serves boards to browsers over websockets.
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/remote"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/rs/zerolog"
)

var (
	addr    = flag.String("addr", ":3000", "listen address")
	dbDir   = flag.String("db", "", "database directory (default: <data dir>/server-db, \"memory\" keeps nothing)")
	origins = flag.String("origins", "*", "comma-separated allowed origins")
	frame   = flag.Duration("frame", 16*time.Millisecond, "animation frame period")
	idle    = flag.Duration("idle", 30*time.Minute, "stop sessions without clients after this long")
	debug   = flag.Bool("debug", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug || os.Getenv("CHESSBOARD_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	st, err := openStorage(*dbDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer st.Close()

	cfg, err := st.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("[Storage] failed to load config, using defaults")
		cfg = config.Default()
	}

	hub := remote.NewHub(remote.SessionOptions{
		Config:  cfg,
		Frame:   *frame,
		Idle:    *idle,
		Storage: st,
		Log:     log,
	})
	srv := remote.NewServer(hub, remote.ServerConfig{AllowOrigins: *origins}, log)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.Listen(*addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
	hub.Close()
}

func openStorage(dir string) (*storage.Storage, error) {
	switch dir {
	case "memory":
		return storage.Open("")
	case "":
		dataDir, err := storage.GetDataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(dataDir, "server-db")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return storage.Open(dir)
}

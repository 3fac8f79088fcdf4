// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/intake"
	"github.com/danielhkuo/ballotbox/keys"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/replay"
	"github.com/danielhkuo/ballotbox/router"
	"github.com/danielhkuo/ballotbox/tally"
)

func main() {
	var err error

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// The key file is re-read per request, but it must exist at startup
	src := keys.NewFileSource(cfg.PublicKeyFile)
	pub, err := src.PublicKey()
	if err != nil {
		slog.Error("public key unreadable", "path", cfg.PublicKeyFile, "error", err)
		os.Exit(1)
	}
	if _, err := keys.ReadPublicKeyRing(pub); err != nil {
		slog.Warn("public key file does not parse as OpenPGP", "path", cfg.PublicKeyFile, "error", err)
	}

	ring, err := keys.LoadPrivateKeyRing(cfg.PrivateKeyFile, cfg.KeyPassphrase)
	if err != nil {
		slog.Error("private key unusable", "path", cfg.PrivateKeyFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Decryption key loaded",
		"keys", len(ring.DecryptionKeys()),
		"max_ballot", humanize.IBytes(uint64(cfg.MaxBallotBytes)),
		"max_inflight", cfg.MaxInFlight,
	)

	gateway := ballot.NewGateway(ballot.NewPGPDecryptor(ring), cfg.DecryptTimeout)
	pipeline := intake.New(gateway, replay.NewGuard(), tally.NewStore(), cfg.MaxInFlight)

	// Create router
	mux := router.NewRouter(pipeline, src, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	snap := pipeline.Tally()
	slog.Info("Final tally", "ballots", humanize.Comma(snap.Total()), "parties", len(snap))
}

// Command coordinator runs a standalone secure-aggregation round coordinator.
//
// The coordinator collects one round: clients join, upload their share
// bundles and masked model updates, fetch the dropped-client list and
// deliver unmasking reports. GET /round/aggregate returns the unmasked
// XOR-combined update once enough reports arrived.
//
// This is a development and integration-test server; production deployments
// use their own aggregation backend.
//
// # Usage
//
//	go run ./cmd/coordinator --listen-addr=:8080 --clients=5 --threshold=3
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgeml-ai/secagg-go/api/httpserver"
	"github.com/edgeml-ai/secagg-go/protocol"
	"github.com/edgeml-ai/secagg-go/services"
)

func main() {
	var (
		listenAddr    = flag.String("listen-addr", ":8080", "HTTP listen address")
		sessionID     = flag.String("session-id", "local-round", "Round session identifier")
		totalClients  = flag.Int("clients", 5, "Number of participants in the round")
		threshold     = flag.Int("threshold", 3, "Shares needed to reconstruct a mask seed")
		privacyBudget = flag.Float64("privacy-budget", 1.0, "Differential-privacy budget passed to clients")
		keyLength     = flag.Int("key-length", 256, "Key length (bits) passed to clients")
		enablePprof   = flag.Bool("pprof", false, "Enable pprof debugging API")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config := protocol.SecAggConfig{
		Threshold:     *threshold,
		TotalClients:  *totalClients,
		PrivacyBudget: *privacyBudget,
		KeyLength:     *keyLength,
	}

	coordinator, err := services.NewCoordinator(log, *sessionID, config)
	if err != nil {
		log.Error("invalid round configuration", "err", err)
		os.Exit(1)
	}

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               *listenAddr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, services.NewCoordinatorHandler(coordinator, log))
	if err != nil {
		log.Error("could not create server", "err", err)
		os.Exit(1)
	}

	srv.RunInBackground()
	log.Info("coordinator running", "session", *sessionID, "clients", *totalClients, "threshold", *threshold)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	srv.Shutdown()
}

// Command demo-cli simulates a complete secure-aggregation round in-process.
//
// It creates a coordinator and n client sessions, runs the share, mask and
// unmask phases with a configurable number of dropouts, and verifies that
// the coordinator's aggregate equals the XOR of the surviving clients' raw
// updates.
//
// # Usage
//
//	go run ./cmd/demo-cli --clients=5 --threshold=3 --drop=1 --update-size=64
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/edgeml-ai/secagg-go/crypto"
	"github.com/edgeml-ai/secagg-go/protocol"
	"github.com/edgeml-ai/secagg-go/services"
)

func main() {
	var (
		totalClients = flag.Int("clients", 5, "Number of participants")
		threshold    = flag.Int("threshold", 3, "Shares needed to reconstruct a mask seed")
		dropCount    = flag.Int("drop", 1, "Clients that vanish after the share phase")
		updateSize   = flag.Int("update-size", 64, "Model update size in bytes")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(log, *totalClients, *threshold, *dropCount, *updateSize); err != nil {
		log.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, totalClients, threshold, dropCount, updateSize int) error {
	if dropCount >= totalClients {
		return fmt.Errorf("cannot drop all %d clients", totalClients)
	}

	config := protocol.SecAggConfig{
		Threshold:     threshold,
		TotalClients:  totalClients,
		PrivacyBudget: 1.0,
		KeyLength:     256,
	}
	coordinator, err := services.NewCoordinator(log, "demo-round", config)
	if err != nil {
		return err
	}

	sessions := make([]*protocol.Session, totalClients)
	expected := make([]byte, updateSize)

	// Phase 1+2: everyone joins and distributes key shares.
	for i := range sessions {
		assignment, err := coordinator.JoinRound()
		if err != nil {
			return err
		}

		sessions[i] = protocol.NewSession()
		if err := sessions[i].BeginSession(assignment.SessionID, assignment.ClientIndex, assignment.Config); err != nil {
			return err
		}

		bundle, err := sessions[i].GenerateKeyShares()
		if err != nil {
			return err
		}
		if err := coordinator.SubmitShareBundle(assignment.ClientIndex, bundle); err != nil {
			return err
		}
	}

	// Phase 3: surviving clients upload masked updates. The last dropCount
	// clients vanish here.
	surviving := totalClients - dropCount
	for i := 0; i < surviving; i++ {
		update := make([]byte, updateSize)
		if _, err := rand.Read(update); err != nil {
			return err
		}
		crypto.XorInplace(expected, update)

		masked, err := sessions[i].MaskModelUpdate(update)
		if err != nil {
			return err
		}
		if err := coordinator.SubmitMaskedUpdate(i+1, masked); err != nil {
			return err
		}
	}

	// Phase 4: survivors report for unmasking.
	dropped := coordinator.DroppedClients()
	log.Info("dropped clients detected", "dropped", dropped)
	for i := 0; i < surviving; i++ {
		report, err := sessions[i].ProvideUnmaskingShares(dropped)
		if err != nil {
			return err
		}
		if err := coordinator.SubmitUnmaskingReport(i+1, report); err != nil {
			return err
		}
	}

	aggregate, err := coordinator.Aggregate()
	if err != nil {
		return err
	}

	if !bytes.Equal(aggregate, expected) {
		return fmt.Errorf("aggregate mismatch:\n got %s\nwant %s",
			hex.EncodeToString(aggregate), hex.EncodeToString(expected))
	}

	log.Info("round verified", "clients", totalClients, "surviving", surviving, "bytes", updateSize)
	fmt.Printf("aggregate: %s\n", hex.EncodeToString(aggregate))
	return nil
}

package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/edgeml-ai/secagg-go/crypto"
	"github.com/edgeml-ai/secagg-go/protocol"
)

// Coordinator collects one secure-aggregation round in memory. All methods
// are safe for concurrent use.
type Coordinator struct {
	log       *slog.Logger
	sessionID string
	config    protocol.SecAggConfig

	mu           sync.Mutex
	nextIndex    int
	bundles      map[int][][]crypto.Share
	masked       map[int][]byte
	reports      map[int]protocol.UnmaskingReport
	updateLength int
}

// NewCoordinator creates a coordinator for a single round.
func NewCoordinator(log *slog.Logger, sessionID string, config protocol.SecAggConfig) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{
		log:       log,
		sessionID: sessionID,
		config:    config,
		nextIndex: 1,
		bundles:   make(map[int][][]crypto.Share),
		masked:    make(map[int][]byte),
		reports:   make(map[int]protocol.UnmaskingReport),
	}, nil
}

// JoinRound assigns the next free participant index. Fails once the round
// is full.
func (c *Coordinator) JoinRound() (protocol.RoundAssignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nextIndex > c.config.TotalClients {
		return protocol.RoundAssignment{}, fmt.Errorf("round %s is full (%d clients)", c.sessionID, c.config.TotalClients)
	}

	assignment := protocol.RoundAssignment{
		SessionID:   c.sessionID,
		ClientIndex: c.nextIndex,
		Config:      c.config,
	}
	c.nextIndex++
	c.log.Info("client joined round", "session", c.sessionID, "clientIndex", assignment.ClientIndex)
	return assignment, nil
}

// SubmitShareBundle stores a client's share bundle after validating it
// against the round shape.
func (c *Coordinator) SubmitShareBundle(clientIndex int, bundleData []byte) error {
	bundle, err := protocol.UnmarshalShareBundle(bundleData)
	if err != nil {
		return err
	}
	if len(bundle) != c.config.TotalClients {
		return fmt.Errorf("%w: bundle has %d recipients, round has %d", protocol.ErrMalformedWireData, len(bundle), c.config.TotalClients)
	}
	// Every share in recipient slot i must carry index i+1, or later seed
	// reconstruction would interpolate against the wrong x coordinates.
	for i, list := range bundle {
		for _, sh := range list {
			if sh.Index != uint32(i+1) {
				return fmt.Errorf("%w: share for recipient %d carries index %d", protocol.ErrMalformedWireData, i+1, sh.Index)
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIndex(clientIndex); err != nil {
		return err
	}
	if _, ok := c.bundles[clientIndex]; ok {
		return fmt.Errorf("client %d already submitted a share bundle", clientIndex)
	}
	c.bundles[clientIndex] = bundle
	c.log.Info("share bundle collected", "session", c.sessionID, "clientIndex", clientIndex)
	return nil
}

// SharesForRecipient returns the shares held for one recipient, one list
// per dealer that submitted a bundle. The coordinator relays these so every
// surviving participant holds its piece of every seed.
func (c *Coordinator) SharesForRecipient(recipientIndex int) (map[int][]crypto.Share, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIndex(recipientIndex); err != nil {
		return nil, err
	}
	out := make(map[int][]crypto.Share, len(c.bundles))
	for dealer, bundle := range c.bundles {
		out[dealer] = bundle[recipientIndex-1]
	}
	return out, nil
}

// SubmitMaskedUpdate stores a client's masked weight payload. All payloads
// in a round must have the same length.
func (c *Coordinator) SubmitMaskedUpdate(clientIndex int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIndex(clientIndex); err != nil {
		return err
	}
	if _, ok := c.bundles[clientIndex]; !ok {
		return fmt.Errorf("client %d submitted an update before its share bundle", clientIndex)
	}
	if c.updateLength == 0 {
		c.updateLength = len(payload)
	} else if len(payload) != c.updateLength {
		return fmt.Errorf("%w: update is %d bytes, round uses %d", protocol.ErrMalformedWireData, len(payload), c.updateLength)
	}
	c.masked[clientIndex] = payload
	c.log.Info("masked update collected", "session", c.sessionID, "clientIndex", clientIndex, "bytes", len(payload))
	return nil
}

// DroppedClients lists participants that submitted a share bundle but never
// delivered a masked update, in ascending order.
func (c *Coordinator) DroppedClients() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := []int{}
	for idx := range c.bundles {
		if _, ok := c.masked[idx]; !ok {
			dropped = append(dropped, idx)
		}
	}
	sort.Ints(dropped)
	return dropped
}

// SubmitUnmaskingReport records a client's unmasking report.
func (c *Coordinator) SubmitUnmaskingReport(clientIndex int, reportData []byte) error {
	report, err := protocol.UnmarshalUnmaskingReport(reportData)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIndex(clientIndex); err != nil {
		return err
	}
	if int(report.ClientIndex) != clientIndex {
		return fmt.Errorf("%w: report claims index %d, uploaded by %d", protocol.ErrMalformedWireData, report.ClientIndex, clientIndex)
	}
	c.reports[clientIndex] = report
	return nil
}

// Aggregate XOR-combines the collected masked updates and strips each
// submitting client's mask, reconstructing its seed from the stored share
// lists. Requires unmasking reports from at least the reconstruction
// threshold of participants.
func (c *Coordinator) Aggregate() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.reports) < c.config.Threshold {
		return nil, fmt.Errorf("%w: %d unmasking reports, need %d", crypto.ErrInsufficientShares, len(c.reports), c.config.Threshold)
	}
	if len(c.masked) == 0 {
		return nil, errors.New("no masked updates collected")
	}

	aggregate := make([]byte, c.updateLength)
	for idx, payload := range c.masked {
		crypto.XorInplace(aggregate, payload)

		seed, err := c.reconstructSeedLocked(idx)
		if err != nil {
			return nil, fmt.Errorf("unmask client %d: %w", idx, err)
		}
		crypto.XorInplace(aggregate, crypto.ExpandSeed(seed, c.updateLength))
	}

	c.log.Info("round aggregated", "session", c.sessionID,
		"updates", len(c.masked), "dropped", c.config.TotalClients-len(c.masked))
	return aggregate, nil
}

// reconstructSeedLocked rebuilds one client's mask seed from the first
// threshold recipients' share lists of its bundle.
func (c *Coordinator) reconstructSeedLocked(clientIndex int) ([]byte, error) {
	bundle, ok := c.bundles[clientIndex]
	if !ok {
		return nil, fmt.Errorf("no share bundle for client %d", clientIndex)
	}

	secrets, err := crypto.ReconstructSecrets(bundle, c.config.Threshold)
	if err != nil {
		return nil, err
	}
	return protocol.FieldElementsToBytes(secrets)
}

func (c *Coordinator) checkIndex(clientIndex int) error {
	if clientIndex < 1 || clientIndex >= c.nextIndex {
		return fmt.Errorf("unknown client index %d", clientIndex)
	}
	return nil
}

package protocol

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/edgeml-ai/secagg-go/crypto"
)

// Session is the client-side secure-aggregation state machine. Exactly one
// session is active per client; its mask seed and outgoing shares are owned
// exclusively by the session until revealed through the protocol.
//
// All methods are safe for concurrent use. A single mutex serializes every
// operation so the phase check and the state mutation are atomic, and no
// operation commits partial state on failure: a failed call leaves the
// session in the phase it was called in.
type Session struct {
	mu  sync.Mutex
	rng io.Reader

	phase          Phase
	sessionID      string
	clientIndex    int
	config         SecAggConfig
	maskSeed       []byte
	outgoingShares [][]crypto.Share
}

// NewSession returns an idle session drawing randomness from crypto/rand.
func NewSession() *Session {
	return NewSessionWithRand(rand.Reader)
}

// NewSessionWithRand returns an idle session with an injected randomness
// source. Tests use this to supply deterministic bytes.
func NewSessionWithRand(rng io.Reader) *Session {
	return &Session{rng: rng, phase: PhaseIdle}
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SessionID returns the identifier assigned at BeginSession, or "".
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// ClientIndex returns the 1-based participant index assigned at
// BeginSession, or 0.
func (s *Session) ClientIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientIndex
}

// BeginSession starts a round: it stores the coordinator-assigned identity
// and configuration and draws a fresh mask seed. Valid only from idle.
func (s *Session) BeginSession(sessionID string, clientIndex int, config SecAggConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIdle {
		return fmt.Errorf("%w: begin session in phase %s", ErrPhaseViolation, s.phase)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if clientIndex < 1 || clientIndex > config.TotalClients {
		return fmt.Errorf("client index %d outside [1, %d]", clientIndex, config.TotalClients)
	}

	seed := make([]byte, crypto.MaskSeedLength)
	if _, err := io.ReadFull(s.rng, seed); err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrRandomnessUnavailable, err)
	}

	s.sessionID = sessionID
	s.clientIndex = clientIndex
	s.config = config
	s.maskSeed = seed
	s.outgoingShares = nil
	s.phase = PhaseShareKeys
	return nil
}

// GenerateKeyShares Shamir-shares the mask seed across all participants and
// returns the serialized share bundle to hand to the server for
// distribution. Valid only from shareKeys; advances to maskedInput.
func (s *Session) GenerateKeyShares() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseShareKeys {
		return nil, fmt.Errorf("%w: generate key shares in phase %s", ErrPhaseViolation, s.phase)
	}

	secrets := BytesToFieldElements(s.maskSeed)
	shares, err := crypto.GenerateShares(secrets, s.config.Threshold, s.config.TotalClients, s.rng)
	if err != nil {
		return nil, err
	}

	s.outgoingShares = shares
	s.phase = PhaseMaskedInput
	return MarshalShareBundle(shares), nil
}

// MaskModelUpdate masks the opaque weight-delta payload with the session's
// seed-derived stream. Valid only from maskedInput; advances to unmasking.
func (s *Session) MaskModelUpdate(weightsData []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseMaskedInput {
		return nil, fmt.Errorf("%w: mask model update in phase %s", ErrPhaseViolation, s.phase)
	}

	masked := crypto.MaskPayload(weightsData, s.maskSeed)
	s.phase = PhaseUnmasking
	return masked, nil
}

// ProvideUnmaskingShares consumes the server's dropped-client list and emits
// the unmasking report that lets the server reconstruct absent seeds from
// the collected shares. Valid only from unmasking; advances to completed.
func (s *Session) ProvideUnmaskingShares(droppedClientIndices []int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseUnmasking {
		return nil, fmt.Errorf("%w: provide unmasking shares in phase %s", ErrPhaseViolation, s.phase)
	}

	seen := make(map[int]bool, len(droppedClientIndices))
	for _, idx := range droppedClientIndices {
		if idx < 1 || idx > s.config.TotalClients {
			return nil, fmt.Errorf("%w: dropped client index %d outside [1, %d]", ErrMalformedWireData, idx, s.config.TotalClients)
		}
		seen[idx] = true
	}

	report := UnmaskingReport{
		SurvivingCount: uint32(s.config.TotalClients - len(seen)),
		ClientIndex:    uint32(s.clientIndex),
	}
	s.phase = PhaseCompleted
	return MarshalUnmaskingReport(report), nil
}

// Fail moves the session to the failed phase. Used by callers when the
// surrounding round breaks; Reset is still required before reuse.
func (s *Session) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseFailed
}

// Reset clears all session state, including the mask seed, and returns to
// idle. Valid from any phase; it has no failure mode.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.maskSeed {
		s.maskSeed[i] = 0
	}
	s.maskSeed = nil
	s.outgoingShares = nil
	s.config = SecAggConfig{}
	s.sessionID = ""
	s.clientIndex = 0
	s.phase = PhaseIdle
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgeml-ai/secagg-go/protocol"
)

// RoundClientConfig configures a RoundClient.
type RoundClientConfig struct {
	// CoordinatorURL is the base URL of the round coordinator.
	CoordinatorURL string

	// HTTPTimeout bounds each coordinator request. Defaults to 10s.
	HTTPTimeout time.Duration

	// Log is the structured logger for round progress.
	Log *slog.Logger
}

// RoundClient drives a secure-aggregation session through one round against
// an HTTP coordinator. The session holds all protocol state; the client only
// moves payloads.
type RoundClient struct {
	cfg        *RoundClientConfig
	httpClient *http.Client
	session    *protocol.Session
	log        *slog.Logger
}

// NewRoundClient creates a round client with a fresh idle session.
func NewRoundClient(cfg *RoundClientConfig) *RoundClient {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RoundClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		session:    protocol.NewSession(),
		log:        cfg.Log,
	}
}

// Session exposes the underlying session, mainly for phase inspection.
func (rc *RoundClient) Session() *protocol.Session {
	return rc.session
}

// RunRound participates in a full round with the given trained weight
// delta. On any failure the session is marked failed and left for the
// caller to Reset.
func (rc *RoundClient) RunRound(ctx context.Context, weightsData []byte) error {
	if err := rc.runRound(ctx, weightsData); err != nil {
		rc.session.Fail()
		return err
	}
	return nil
}

func (rc *RoundClient) runRound(ctx context.Context, weightsData []byte) error {
	assignment, err := rc.Join(ctx)
	if err != nil {
		return err
	}
	if err := rc.SubmitShares(ctx); err != nil {
		return err
	}
	if err := rc.SubmitMaskedUpdate(ctx, weightsData); err != nil {
		return err
	}
	if err := rc.CompleteUnmasking(ctx); err != nil {
		return err
	}

	rc.log.Info("round completed", "session", assignment.SessionID, "clientIndex", assignment.ClientIndex)
	return nil
}

// Join asks the coordinator for a round assignment and begins the session.
func (rc *RoundClient) Join(ctx context.Context) (*protocol.RoundAssignment, error) {
	var assignment protocol.RoundAssignment
	if err := rc.postJSON(ctx, "/round/join", struct{}{}, &assignment); err != nil {
		return nil, fmt.Errorf("join round: %w", err)
	}
	if err := rc.session.BeginSession(assignment.SessionID, assignment.ClientIndex, assignment.Config); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SubmitShares generates the key shares and uploads the bundle.
func (rc *RoundClient) SubmitShares(ctx context.Context) error {
	bundle, err := rc.session.GenerateKeyShares()
	if err != nil {
		return err
	}
	upload := protocol.ShareBundleUpload{
		SessionID:   rc.session.SessionID(),
		ClientIndex: rc.session.ClientIndex(),
		Bundle:      bundle,
	}
	if err := rc.postJSON(ctx, "/round/shares", &upload, nil); err != nil {
		return fmt.Errorf("upload share bundle: %w", err)
	}
	return nil
}

// SubmitMaskedUpdate masks the weight delta and uploads it.
func (rc *RoundClient) SubmitMaskedUpdate(ctx context.Context, weightsData []byte) error {
	masked, err := rc.session.MaskModelUpdate(weightsData)
	if err != nil {
		return err
	}
	upload := protocol.MaskedUpdateUpload{
		SessionID:   rc.session.SessionID(),
		ClientIndex: rc.session.ClientIndex(),
		Payload:     masked,
	}
	if err := rc.postJSON(ctx, "/round/masked-update", &upload, nil); err != nil {
		return fmt.Errorf("upload masked update: %w", err)
	}
	return nil
}

// CompleteUnmasking fetches the dropped-client list and delivers the
// unmasking report.
func (rc *RoundClient) CompleteUnmasking(ctx context.Context) error {
	var notice protocol.DroppedClientsNotice
	if err := rc.getJSON(ctx, "/round/dropped", &notice); err != nil {
		return fmt.Errorf("fetch dropped clients: %w", err)
	}

	report, err := rc.session.ProvideUnmaskingShares(notice.Dropped)
	if err != nil {
		return err
	}
	upload := protocol.UnmaskingUpload{
		SessionID:   rc.session.SessionID(),
		ClientIndex: rc.session.ClientIndex(),
		Report:      report,
	}
	if err := rc.postJSON(ctx, "/round/unmasking", &upload, nil); err != nil {
		return fmt.Errorf("upload unmasking report: %w", err)
	}
	return nil
}

func (rc *RoundClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.cfg.CoordinatorURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return rc.do(req, out)
}

func (rc *RoundClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rc.cfg.CoordinatorURL+path, nil)
	if err != nil {
		return err
	}
	return rc.do(req, out)
}

func (rc *RoundClient) do(req *http.Request, out any) error {
	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

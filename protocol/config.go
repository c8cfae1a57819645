package protocol

import "fmt"

// SecAggConfig carries the round parameters the coordinator hands to every
// participating client.
type SecAggConfig struct {
	// Threshold is the minimum number of share lists needed to reconstruct
	// a mask seed.
	Threshold int `json:"threshold"`

	// TotalClients is the number of participants in the round.
	TotalClients int `json:"total_clients"`

	// PrivacyBudget is the differential-privacy budget for the round. It is
	// passed through to the noise layer and not consumed here.
	PrivacyBudget float64 `json:"privacy_budget"`

	// KeyLength is the key size in bits used by the surrounding key
	// negotiation; passed through unchanged.
	KeyLength int `json:"key_length"`
}

// Validate checks the configuration invariants.
func (c *SecAggConfig) Validate() error {
	if c.Threshold < 1 || c.Threshold > c.TotalClients {
		return fmt.Errorf("threshold %d outside [1, %d]", c.Threshold, c.TotalClients)
	}
	return nil
}

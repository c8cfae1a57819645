package protocol

// Phase identifies the current step of a secure-aggregation session.
// Sessions advance monotonically through the forward phases and never
// regress except via Reset.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseShareKeys
	PhaseMaskedInput
	PhaseUnmasking
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShareKeys:
		return "shareKeys"
	case PhaseMaskedInput:
		return "maskedInput"
	case PhaseUnmasking:
		return "unmasking"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

package domain

// Status is the confirmation lifecycle state of a transaction.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// stage orders statuses along the lifecycle. Terminal states share a stage so
// neither can replace the other.
func (s Status) stage() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	default:
		return -1
	}
}

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	return s.stage() >= 0
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo is the single authoritative transition rule:
// pending -> processing -> {completed, failed}. Transitions only move
// forward, and terminal states never change.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	return next.stage() > s.stage()
}

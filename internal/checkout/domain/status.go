package domain

import "fmt"

// SessionStatus is the checkout session state as reported by the
// payment provider. An order starts open and ends complete or expired.
type SessionStatus string

const (
	StatusOpen     SessionStatus = "open"
	StatusComplete SessionStatus = "complete"
	StatusExpired  SessionStatus = "expired"
)

func ParseSessionStatus(raw string) (SessionStatus, error) {
	switch status := SessionStatus(raw); status {
	case StatusOpen, StatusComplete, StatusExpired:
		return status, nil
	default:
		return "", fmt.Errorf("unknown session status %q", raw)
	}
}

// Terminal reports whether no further transition may leave s.
func (s SessionStatus) Terminal() bool {
	return s == StatusComplete || s == StatusExpired
}

// CanTransition reports whether a session may move between the two
// statuses. Open may move anywhere; a terminal status only accepts an
// idempotent reapply of itself.
func CanTransition(from, to SessionStatus) bool {
	if from == to {
		return true
	}
	return from == StatusOpen
}

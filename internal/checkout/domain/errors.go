package domain

import "errors"

var (
	// ErrNoItems rejects orders with an empty item list.
	ErrNoItems = errors.New("order must contain at least one item")

	// ErrOrderNotFound signals an unknown order id or session id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidSessionID signals the payment provider does not
	// recognize the session identifier at all.
	ErrInvalidSessionID = errors.New("invalid checkout session id")

	// ErrSessionFinalized signals an expire call against a session the
	// provider has already closed. Cancellation treats it as success.
	ErrSessionFinalized = errors.New("checkout session already finalized")

	// ErrStatusPending signals the provider has no status opinion for
	// the session yet. Callers should retry later.
	ErrStatusPending = errors.New("checkout status not determinable yet")

	// ErrInvalidTransition rejects overwriting a terminal session
	// status with a different one.
	ErrInvalidTransition = errors.New("invalid session status transition")
)

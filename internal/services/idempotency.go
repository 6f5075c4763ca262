package services

import "context"

// CheckoutReceipt is what a checkout call returns and what an idempotent
// replay must reproduce.
type CheckoutReceipt struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id,omitempty"`
}

// IdempotencyStore guards checkout against duplicate submissions keyed by a
// client-supplied Idempotency-Key. Begin claims the key; if it was already
// claimed, the prior receipt (or in-flight marker) is returned instead.
// Implementations live outside this package (redis-backed); a nil store
// disables the guard.
type IdempotencyStore interface {
	// Begin returns (nil, false) when the key was freshly claimed,
	// (receipt, false) when a completed call can be replayed, and
	// (nil, true) when the key is still in flight.
	Begin(ctx context.Context, key string) (*CheckoutReceipt, bool, error)
	Complete(ctx context.Context, key string, receipt *CheckoutReceipt) error
	// Release frees a key whose checkout failed, so the client may retry.
	Release(ctx context.Context, key string) error
}

package reservation

import "context"

// PaymentClient is the external payment collaborator: a single
// bounded-latency call that debits playerID for amountCents and reports
// success. Any exception, timeout, or negative response on the
// implementation's side must be surfaced as (false, nil) or a non-nil
// error — the coordinator treats both uniformly as a payment failure.
type PaymentClient interface {
	Debit(ctx context.Context, playerID string, amountCents uint32) (bool, error)
}

// StaticPaymentClient is a deterministic stand-in for the real payment
// service, mirroring the reference call_wallet_debit behavior: it always
// approves unless Deny is set, which test code flips to exercise the
// payment-declined path.
type StaticPaymentClient struct {
	Deny bool
}

// Debit implements PaymentClient.
func (s *StaticPaymentClient) Debit(_ context.Context, _ string, _ uint32) (bool, error) {
	return !s.Deny, nil
}

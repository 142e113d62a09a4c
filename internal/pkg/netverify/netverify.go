// Package netverify decides whether a caller's public network address matches
// the address registered for an office.
package netverify

import "strings"

const (
	ReasonMatched       = "network verified"
	ReasonNotConfigured = "office network is not configured"
	ReasonNoAddress     = "unable to determine your network address"
	ReasonMismatch      = "you must be connected to the office network"
)

type Result struct {
	Valid  bool
	Reason string
}

type Verifier struct {
	requireRegistered bool
}

// New returns a verifier. With requireRegistered set, offices without a
// registered address reject every caller instead of accepting all of them.
func New(requireRegistered bool) *Verifier {
	return &Verifier{requireRegistered: requireRegistered}
}

// Verify compares by exact string equality. No CIDR or case folding.
func (v *Verifier) Verify(registered *string, caller string) Result {
	if registered == nil || strings.TrimSpace(*registered) == "" {
		return Result{Valid: !v.requireRegistered, Reason: ReasonNotConfigured}
	}
	if caller == "" {
		return Result{Valid: false, Reason: ReasonNoAddress}
	}
	if *registered != caller {
		return Result{Valid: false, Reason: ReasonMismatch}
	}
	return Result{Valid: true, Reason: ReasonMatched}
}

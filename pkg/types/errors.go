// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy for the connect pipeline. Components wrap these sentinels
// with fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is while keeping the original context.
var (
	// ErrNotFound means no identifier could be resolved for a reference,
	// or the upstream reported the lookup key unknown. Both surface the
	// same way: the user should try a different reference.
	ErrNotFound = errors.New("paper not found")

	// ErrRateLimited means the upstream reported throttling. Surfaced
	// distinctly so a UI can say "try again later" instead of "not found".
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrUpstream is the catch-all for any other upstream or transport
	// failure.
	ErrUpstream = errors.New("upstream request failed")
)

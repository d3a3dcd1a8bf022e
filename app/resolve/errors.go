package resolve

import (
	"errors"
)

var (
	// ErrUnsupportedDomain means no resolution rule is registered for the
	// link's registrable domain. Frequent and expected; a per-item failure.
	ErrUnsupportedDomain = errors.New("no resolution rule for domain")

	// ErrPageIncomplete means a rule exists but the expected indirection
	// markers are absent from the fetched page.
	ErrPageIncomplete = errors.New("expected indirection markers missing from page")
)

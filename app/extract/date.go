package extract

import (
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate converts a feed's native date string to RFC 3339 in UTC.
// Unparseable input is returned unchanged so no information is lost.
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}

	return t.UTC().Format(time.RFC3339)
}

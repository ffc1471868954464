package match

import (
	"strings"
	"time"
)

type Freshness string

const (
	Fresh Freshness = "fresh"
	Stale Freshness = "stale"
	Old   Freshness = "old"
)

const (
	freshWindow = 180 * 24 * time.Hour
	staleWindow = 365 * 24 * time.Hour
)

// Classify buckets a policy's last verification time relative to now.
// Both window edges are inclusive.
func Classify(lastUpdated *time.Time, now time.Time) Freshness {
	if lastUpdated == nil {
		return Old
	}
	age := now.UTC().Sub(lastUpdated.UTC())
	switch {
	case age <= freshWindow:
		return Fresh
	case age <= staleWindow:
		return Stale
	default:
		return Old
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 timestamps with a 'T' or a space separator.
// Values without a zone are read as UTC. Unparseable input yields nil.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

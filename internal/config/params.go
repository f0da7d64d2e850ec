package config

import (
	"net/url"
	"strconv"
)

// Params is a key-value provider of startup parameters. url.Values
// satisfies it, so a query string can configure a session directly.
type Params interface {
	Get(key string) string
}

var _ Params = url.Values(nil)

// Startup holds the session parameters read from Params.
type Startup struct {
	// Limit is the requested puzzle count. Zero means "not given"; the game
	// treats any value outside 1..len(set) as the full set.
	Limit int
	// Reset clears persisted progress before the session starts.
	Reset bool
}

// ParseStartup reads "n" (a positive integer) and "new" ("1" to reset).
// Malformed values are treated as absent.
func ParseStartup(p Params) Startup {
	var s Startup
	if n, err := strconv.Atoi(p.Get("n")); err == nil && n > 0 {
		s.Limit = n
	}
	s.Reset = p.Get("new") == "1"
	return s
}

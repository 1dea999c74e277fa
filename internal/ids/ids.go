// Package ids generates storage identifiers. ULIDs keep index pages warm
// because freshly inserted rows sort together.
package ids

import (
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for storage keys.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewPrefixed returns an identifier tagged with an entity kind, e.g.
// "usr_01J...". The prefix makes ids self-describing in logs and audits.
func NewPrefixed(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return New()
	}
	return kind + "_" + New()
}

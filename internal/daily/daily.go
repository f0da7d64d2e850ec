// internal/daily/daily.go
//
// Date-seeded ordering: everyone who plays with --daily on the same UTC day
// gets the same puzzle order and clue order. The seed is derived from the
// salt and the date with HKDF-SHA256, so the order cannot be predicted
// without the salt.

package daily

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/rand"
	"time"

	"golang.org/x/crypto/hkdf"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for the UTC day of date.
func Seed(date time.Time, salt string) int64 {
	r := hkdf.New(sha256.New, []byte(salt), nil, []byte("onebit daily "+DateKey(date)))
	var b [8]byte
	// HKDF-SHA256 yields up to 8160 bytes; 8 cannot fail.
	_, _ = io.ReadFull(r, b[:])
	return int64(binary.BigEndian.Uint64(b[:]))
}

// Rand returns a source seeded for the date.
func Rand(date time.Time, salt string) *rand.Rand {
	return rand.New(rand.NewSource(Seed(date, salt)))
}

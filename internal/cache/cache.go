// Package cache memoizes completed translations. Entries are keyed by the
// full request (source text, target language, instructions and model) and
// are immutable once written, so a cache may be shared across jobs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Key identifies one translation request. Two requests hit the same entry
// only when all four fields are equal.
type Key struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	Instructions   string `json:"instructions"`
	Model          string `json:"model"`
}

// Hash returns a stable hex digest of the key, used by persistent backends.
// Fields are length-prefixed so no two distinct keys share an encoding.
func (k Key) Hash() string {
	h := sha256.New()
	var n [8]byte
	for _, f := range []string{k.Text, k.TargetLanguage, k.Instructions, k.Model} {
		binary.BigEndian.PutUint64(n[:], uint64(len(f)))
		h.Write(n[:])
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache stores successful translations. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key Key) (string, bool, error)
	Put(ctx context.Context, key Key, translated string) error
}

// Entry is one stored translation, as listed by persistent backends.
type Entry struct {
	ID         string
	Key        Key
	Translated string
	UsageCount int
	LastUsed   time.Time
}

// Stats summarises a cache's contents.
type Stats struct {
	Entries    int
	TotalUsage int
}

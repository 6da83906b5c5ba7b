package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SourceHashPolicy computes a stable hash over an article's title and
// text. The ingest path uses it to skip re-embedding articles whose
// content has not changed since the last refresh.
type SourceHashPolicy interface {
	Compute(title, text string) string
}

type sourceHashPolicy struct{}

// NewSourceHashPolicy creates the default SourceHashPolicy.
func NewSourceHashPolicy() SourceHashPolicy {
	return &sourceHashPolicy{}
}

// Compute returns the SHA-256 hash of the normalized title and text.
// A null byte separates the components so ("A","B") and ("AB","") never
// collide.
func (p *sourceHashPolicy) Compute(title, text string) string {
	normalized := strings.TrimSpace(title) + "\x00" + strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

package diff

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/todmy/movement-tracker/pkg/models"
)

// NormalizeValue collapses the absent-equivalents nil, "", "null" and
// "NULL" to the empty string and trims surrounding whitespace. It does
// NOT case-fold: differently cased values compare as different.
func NormalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "null" || v == "NULL" {
		return ""
	}
	return v
}

// ComputeHash returns a deterministic fingerprint of the snapshot over
// the engine's hashed field subset. Two snapshots with identical
// normalized values for every hashed field always produce the same
// hash. Hashing is not a security boundary; MD5 is used for its
// stability and fixed length only.
func (e *Engine) ComputeHash(snapshot *models.PersonSnapshot) string {
	values := make(map[string]string, len(e.hashedFields))
	for _, field := range e.hashedFields {
		values[field] = NormalizeValue(snapshot.Field(field))
	}

	// json.Marshal serializes map keys in sorted order, so the input
	// to the digest is independent of field declaration order.
	serialized, err := json.Marshal(values)
	if err != nil {
		// A map[string]string cannot fail to marshal; keep the pure,
		// never-raises contract anyway.
		serialized = []byte{}
	}

	sum := md5.Sum(serialized)
	return hex.EncodeToString(sum[:])
}

// IsHashDifferent reports whether the new hash differs from the stored
// baseline. An empty previous hash means no baseline exists and counts
// as changed, forcing first-time classification.
func IsHashDifferent(newHash, previousHash string) bool {
	if previousHash == "" {
		return true
	}
	return newHash != previousHash
}

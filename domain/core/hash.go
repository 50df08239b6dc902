package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Domain-specific hash types
type (
	CohortHash Hash
	ConfigHash Hash
)

func (h CohortHash) String() string { return Hash(h).String() }
func (h ConfigHash) String() string { return Hash(h).String() }

// ComputeCohortHash fingerprints the set of users in a batch.
// Order-insensitive: ids are sorted before hashing.
func ComputeCohortHash(userIDs []UserID) CohortHash {
	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	var data strings.Builder
	for _, id := range ids {
		data.WriteString(id)
		data.WriteString("\n")
	}
	return CohortHash(NewHash([]byte(data.String())))
}

// ComputeConfigHash fingerprints a configuration snapshot.
func ComputeConfigHash(fields map[string]interface{}) ConfigHash {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", fields[key]))
	}
	return ConfigHash(NewHash([]byte(data.String())))
}

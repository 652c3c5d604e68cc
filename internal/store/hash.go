package store

import (
	"crypto/sha256"
	"fmt"
)

// ComputeContentHash returns the hex sha256 of a help import file.
func ComputeContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

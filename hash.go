// Hash algorithm implementations for temp-directory lock names.
//
// When a lock's directory is not writable, External sidecar files fall
// back to the system temp directory. The original directory path is
// hashed into the file name so locks for files with the same basename
// in different directories never collide. Three algorithms are
// supported, selectable via Config.HashAlgorithm.
package flock

import (
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// hash generates a 16 hex character namespace from a directory path
// using the specified algorithm.
func hash(path string, alg int) string {
	switch alg {
	case AlgXXHash3:
		h := xxh3.HashString(path)
		return fmt.Sprintf("%016x", h)
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write([]byte(path))
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write([]byte(path))
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return ""
	}
}

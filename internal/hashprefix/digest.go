package hashprefix

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm selects the digest primitive. The public index uses SHA-1; the
// other algorithms only interoperate with an index built with the same one.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm validates a configured algorithm name. Empty selects SHA1.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case "":
		return SHA1, nil
	case SHA1, SHA256, BLAKE3:
		return alg, nil
	default:
		return "", fmt.Errorf("unsupported digest algorithm %q", name)
	}
}

// Sum returns the lowercase hex digest of identifier.
func (a Algorithm) Sum(identifier string) string {
	data := []byte(identifier)
	switch a {
	case SHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:])
	case BLAKE3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:])
	default:
		sum := sha1.Sum(data)
		return hex.EncodeToString(sum[:])
	}
}

// HexLen is the length of a digest produced by a.
func (a Algorithm) HexLen() int {
	switch a {
	case SHA256, BLAKE3:
		return 64
	default:
		return sha1.Size * 2
	}
}

// Digest hashes identifier with SHA-1, the primitive of the public index.
func Digest(identifier string) string {
	return SHA1.Sum(identifier)
}

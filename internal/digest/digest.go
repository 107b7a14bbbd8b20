// Package digest computes content-addressed fingerprints of score output.
//
// A frame digest is stable across processes and machines for the same
// orchestrator output, so two runs of a scenario with the same mode and
// seed can be compared frame by frame without storing both outputs.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/roach88/mpn/internal/score"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFrame = "mpn/frame/v1"
	DomainRun   = "mpn/run/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Frame returns the digest of one orchestrator output. The JSON encoding
// is deterministic: struct fields keep declaration order, map keys are
// sorted and floats use the shortest exact representation.
// Returns error if the output holds a value JSON cannot represent (NaN).
func Frame(out score.Output) (string, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("frame digest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFrame, data), nil
}

// Run folds the ordered frame digests of a run into one digest. The empty
// run has a digest too.
func Run(frames []string) string {
	data, _ := json.Marshal(frames)
	if frames == nil {
		data = []byte("[]")
	}
	return hashWithDomain(DomainRun, data)
}

// MustFrame is like Frame but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFrame(out score.Output) string {
	d, err := Frame(out)
	if err != nil {
		panic(err)
	}
	return d
}

// Package hash computes SHA-256 digests over buffers, strings, streams and files.
// Create a Hasher and Add to it when the data arrives in pieces, or use one of
// the Compute helpers when it is all available.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	stdhash "hash"
	"io"
	"os"
	"strings"
)

const (
	// Size is the length of a digest in bytes.
	Size = sha256.Size
	// StringSize is the length of a digest rendered as hex.
	StringSize = 2 * Size
)

// ErrFinished is returned when a Hasher is used after Finish.
var ErrFinished = errors.New("hash already finished")

// Digest is a SHA-256 hash value.
type Digest [Size]byte

// Details pairs a digest with the number of bytes that produced it.
type Details struct {
	Hash Digest
	Size uint64
}

// Hasher accumulates data incrementally.
// Mutable
type Hasher struct {
	h        stdhash.Hash
	finished bool
}

func New() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Add feeds the next chunk of data into the hash.
func (h *Hasher) Add(p []byte) error {
	if h.finished {
		return ErrFinished
	}
	h.h.Write(p)
	return nil
}

// Write implements io.Writer so a Hasher can sit behind io.Copy or io.MultiWriter.
func (h *Hasher) Write(p []byte) (int, error) {
	if err := h.Add(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Finish returns the accumulated digest. The Hasher cannot be used afterwards.
func (h *Hasher) Finish() (Digest, error) {
	var d Digest
	if h.finished {
		return d, ErrFinished
	}
	h.finished = true
	copy(d[:], h.h.Sum(nil))
	return d, nil
}

func Compute(b []byte) Digest {
	return sha256.Sum256(b)
}

func ComputeString(s string) Digest {
	return sha256.Sum256([]byte(s))
}

// ComputeReader hashes everything r yields until EOF.
func ComputeReader(r io.Reader) (Digest, error) {
	d, err := ComputeDetails(r)
	return d.Hash, err
}

// ComputeDetails hashes r and also reports how many bytes were consumed.
func ComputeDetails(r io.Reader) (Details, error) {
	h := New()
	n, err := io.Copy(h, r)
	if err != nil {
		return Details{}, fmt.Errorf("failed to read input: %w", err)
	}
	d, err := h.Finish()
	if err != nil {
		return Details{}, err
	}
	return Details{Hash: d, Size: uint64(n)}, nil
}

func ComputeFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	return ComputeReader(f)
}

// String returns the lower-case hex form of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse converts a hex string (either case) into a Digest.
func Parse(s string) (Digest, error) {
	var d Digest
	s = strings.TrimSpace(s)
	if len(s) != StringSize {
		return d, fmt.Errorf("invalid sha256 %q: expected %d hex characters", s, StringSize)
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("invalid sha256 %q: %w", s, err)
	}
	return d, nil
}

// Equal reports whether a and b are the same digest.
func Equal(a, b Digest) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

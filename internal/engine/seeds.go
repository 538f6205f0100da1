package engine

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidSeed reports missing or malformed seed material. Callers must
// surface it rather than substitute a default seed.
var ErrInvalidSeed = errors.New("invalid seed material")

// Seeds is the seed pair a game derives outcomes from. Both seeds are
// treated as opaque ASCII strings; the server seed is never hex-decoded.
type Seeds struct {
	Server string `json:"server_seed"`
	Client string `json:"client_seed"`
}

// Validate rejects empty seed material.
func (s Seeds) Validate() error {
	if s.Server == "" {
		return fmt.Errorf("%w: empty server seed", ErrInvalidSeed)
	}
	if s.Client == "" {
		return fmt.Errorf("%w: empty client seed", ErrInvalidSeed)
	}
	return nil
}

// HashSeed returns the hex SHA-256 commitment for a server seed. The hash
// is published to the player before any outcome under that seed is derived.
func HashSeed(serverSeed string) string {
	if serverSeed == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(hash[:])
}

const (
	serverSeedBytes = 32
	clientSeedBytes = 8
)

// NewServerSeed generates a fresh 256-bit server seed, hex-encoded.
func NewServerSeed() (string, error) {
	return randomHex(serverSeedBytes)
}

// NewClientSeed generates the default client seed used when the player has
// not supplied one.
func NewClientSeed() (string, error) {
	return randomHex(clientSeedBytes)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Package id mints the opaque public identifiers cheerboard hands out on
// the wire, such as tap IDs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates public IDs. Implementations must be safe for
// concurrent use.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator backs public IDs with 128 random bits, hex encoded.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}

package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

// ByteGenerator produces the provably fair byte stream for one game:
// HMAC-SHA256 keyed by the server seed over "{client}:{nonce}:{round}",
// 32 bytes per round. The stream is resumable at any byte position so a
// verifier can replay a single draw without regenerating the prefix.
type ByteGenerator struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a generator positioned at the given byte offset.
func NewByteGenerator(serverSeed, clientSeed string, nonce uint64, offset uint64) *ByteGenerator {
	bg := &ByteGenerator{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		nonce:        nonce,
		currentRound: offset / 32,
		currentPos:   int(offset % 32),
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte of the stream.
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat consumes exactly 4 bytes and returns a uniform value in [0, 1).
func (bg *ByteGenerator) NextFloat() float64 {
	b0 := bg.Next()
	b1 := bg.Next()
	b2 := bg.Next()
	b3 := bg.Next()

	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", bg.clientSeed, bg.nonce, bg.currentRound)
	h.Write([]byte(message))
	copy(bg.buffer[:], h.Sum(nil))
}

// bytesToFloat folds 4 bytes into a fraction: sum of b_i / 256^(i+1).
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// floatBytes is how many stream bytes one derived float consumes. The
// cursor arguments below count floats, not bytes.
const floatBytes = 4

// Floats derives count floats starting at the given cursor.
func Floats(seeds Seeds, nonce uint64, cursor uint64, count int) ([]float64, error) {
	if err := seeds.Validate(); err != nil {
		return nil, err
	}

	bg := NewByteGenerator(seeds.Server, seeds.Client, nonce, cursor*floatBytes)
	floats := make([]float64, count)
	for i := 0; i < count; i++ {
		floats[i] = bg.NextFloat()
	}
	return floats, nil
}

// Float derives the single float at the given cursor.
func Float(seeds Seeds, nonce uint64, cursor uint64) (float64, error) {
	if err := seeds.Validate(); err != nil {
		return 0, err
	}

	bg := NewByteGenerator(seeds.Server, seeds.Client, nonce, cursor*floatBytes)
	return bg.NextFloat(), nil
}

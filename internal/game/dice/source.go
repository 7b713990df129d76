package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand/v2"
)

// cryptoSource implements Source using crypto/rand. It is only used to pick
// a seed when none is configured.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics with "dice: Intn called with n <= 0" if n <= 0.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

func (cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / (1 << 53)
}

// NewSeed draws a fresh non-zero seed from crypto/rand.
func NewSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	seed := binary.LittleEndian.Uint64(b[:])
	if seed == 0 {
		seed = 1
	}
	return seed
}

// SeededSource is a deterministic PCG-backed Source. It is not safe for
// concurrent use; the simulation state owns exactly one.
type SeededSource struct {
	seed uint64
	pcg  mrand.PCG
	rng  *mrand.Rand
}

// NewSeededSource returns a source whose sequence is fully determined by seed.
func NewSeededSource(seed uint64) *SeededSource {
	s := &SeededSource{seed: seed}
	s.pcg = *mrand.NewPCG(seed, seed^0x9E3779B97F4A7C15)
	s.rng = mrand.New(&s.pcg)
	return s
}

// Seed returns the seed the source was constructed with.
func (s *SeededSource) Seed() uint64 { return s.seed }

// Intn panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *SeededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

func (s *SeededSource) Float64() float64 {
	return s.rng.Float64()
}

// Clone returns an independent source positioned at the same point in the
// sequence. Draws on the clone do not advance the original.
func (s *SeededSource) Clone() *SeededSource {
	c := &SeededSource{seed: s.seed, pcg: s.pcg}
	c.rng = mrand.New(&c.pcg)
	return c
}

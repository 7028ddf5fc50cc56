// Package random provides the random source the video pipeline draws static from.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is a source of random numbers.
type Source interface {
	// Uint32 returns a uniformly distributed 32 bit value.
	Uint32() uint32

	// IntN returns a uniformly distributed value in [min, max).
	IntN(min, max int) int
}

// PCG is a seedable Source. It is not safe for concurrent use.
type PCG struct {
	r *rand.Rand
}

// New returns a deterministic Source for seed.
func New(seed uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewFromEntropy returns a Source seeded from the operating system.
func NewFromEntropy() *PCG {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(err)
	}
	return New(binary.LittleEndian.Uint64(b[:]))
}

func (p *PCG) Uint32() uint32 {
	return p.r.Uint32()
}

// IntN panics if max <= min.
func (p *PCG) IntN(min, max int) int {
	if max <= min {
		panic("random: empty range")
	}
	return min + p.r.IntN(max-min)
}

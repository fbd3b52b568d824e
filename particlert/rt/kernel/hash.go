package kernel

import (
	"github.com/go-gl/mathgl/mgl32"
)

const hashMask = 0x0fffffff

// Hash is the per-invocation pseudo-random stream (Hugo Elias integer hash).
// It is not safe for concurrent use; every invocation owns its own.
type Hash struct {
	n uint32
}

// NewHash seeds the stream from the invocation index squared.
func NewHash(index uint32) Hash {
	return Hash{n: index * index}
}

// Next advances the state and returns a value in [0, 1].
func (h *Hash) Next() float32 {
	n := h.n
	n = (n << 13) ^ n
	n = n*(n*n*15731+789221) + 1376312589
	h.n = n
	return float32(n&hashMask) / float32(hashMask)
}

// Vec3 draws x, y, z in that order.
func (h *Hash) Vec3() mgl32.Vec3 {
	x := h.Next()
	y := h.Next()
	z := h.Next()
	return mgl32.Vec3{x, y, z}
}

// State returns the raw 32-bit state, mostly useful for tests and the GPU port.
func (h *Hash) State() uint32 { return h.n }

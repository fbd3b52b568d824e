package core

// Buffer is the fixed-size slot array a dispatch runs over.
// Slot i is only ever touched by invocation i.
type Buffer struct {
	particles []Particle
}

func NewBuffer(count int) *Buffer {
	if count < 0 {
		count = 0
	}
	return &Buffer{particles: make([]Particle, count)}
}

func (b *Buffer) Len() int { return len(b.particles) }

func (b *Buffer) At(i int) *Particle { return &b.particles[i] }

// Slice exposes the backing array. Callers must not append to it.
func (b *Buffer) Slice() []Particle { return b.particles }

// Resize reallocates the buffer. Every slot is reset to a zero (dead) record,
// including the ones that would have fit in the old size.
func (b *Buffer) Resize(count int) {
	if count < 0 {
		count = 0
	}
	b.particles = make([]Particle, count)
}

// Alive counts records at or above the death threshold.
func (b *Buffer) Alive() int {
	n := 0
	for i := range b.particles {
		if !b.particles[i].Dead() {
			n++
		}
	}
	return n
}

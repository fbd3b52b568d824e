package kernel

import (
	"github.com/gekko3d/sparks/particlert/rt/core"
)

// Kernel is the control program run once per particle slot and frame.
type Kernel interface {
	Name() string
	// Spawn reinitialises a dead record in place.
	Spawn(h *Hash, p *core.Particle)
	// Tick advances a live record.
	Tick(h *Hash, p *core.Particle)
}

// Outcome reports which branch an invocation took.
type Outcome int

const (
	Ticked Outcome = iota
	Spawned
)

// Invoke runs one invocation: seed the hash from index, respawn or tick,
// then rebuild the derived matrices.
func Invoke(k Kernel, index uint32, p *core.Particle) Outcome {
	h := NewHash(index)
	out := Ticked
	if p.Dead() {
		k.Spawn(&h, p)
		out = Spawned
	} else {
		k.Tick(&h, p)
	}
	core.ComputeMatrices(p)
	return out
}

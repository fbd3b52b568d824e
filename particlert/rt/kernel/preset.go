package kernel

import (
	"github.com/gekko3d/sparks/particlert/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Preset spawns particles in a flat torus and spins them slowly.
type Preset struct {
	Label string

	TorusMin float32
	TorusMax float32

	Height     [2]float32 // y range (min,max)
	ScaleRange [2]float32 // uniform scale range (min,max)
	Lifetime   float32    // lifetime given on spawn

	RotationRate mgl32.Vec3 // max rotation added per tick on each axis
	Decay        float32    // lifetime removed per tick, 0 keeps particles alive forever

	// ScaleFirst draws the scale before the position on spawn.
	// Both orders exist in the shipped presets and give different streams.
	ScaleFirst bool
}

// Donut is the default control program of the particle demo.
var Donut = Preset{
	Label:        "donut",
	TorusMin:     250,
	TorusMax:     2500,
	Height:       [2]float32{-30, 30},
	ScaleRange:   [2]float32{0.1, 1.0},
	Lifetime:     1000,
	RotationRate: mgl32.Vec3{0.005, 0.01, 0.0075},
	Decay:        1,
}

// Ring is the wider variant. It never decays, so every slot spawns exactly once.
var Ring = Preset{
	Label:        "ring",
	TorusMin:     2000,
	TorusMax:     5000,
	Height:       [2]float32{-50, 50},
	ScaleRange:   [2]float32{0.2, 2.2},
	Lifetime:     100,
	RotationRate: mgl32.Vec3{0.05 * 0.1, 0.1 * 0.1, 0.075 * 0.1},
	Decay:        0,
	ScaleFirst:   true,
}

// Builtins lists the presets available without a config file.
func Builtins() map[string]Preset {
	return map[string]Preset{
		Donut.Label: Donut,
		Ring.Label:  Ring,
	}
}

func (k Preset) Name() string { return k.Label }

func (k Preset) Spawn(h *Hash, p *core.Particle) {
	var s float32
	if k.ScaleFirst {
		s = lerp(k.ScaleRange[0], k.ScaleRange[1], h.Next())
	}
	pos := PosInTorus(h, k.TorusMin, k.TorusMax)
	pos[1] = lerp(k.Height[0], k.Height[1], h.Next())
	if !k.ScaleFirst {
		s = lerp(k.ScaleRange[0], k.ScaleRange[1], h.Next())
	}

	p.Position = pos
	p.Scale = mgl32.Vec3{s, s, s}
	p.Rotation = mgl32.Vec3{}
	p.Velocity = mgl32.Vec3{}
	p.Lifetime = k.Lifetime
}

func (k Preset) Tick(h *Hash, p *core.Particle) {
	p.Rotation[0] += k.RotationRate.X() * h.Next()
	p.Rotation[1] += k.RotationRate.Y() * h.Next()
	p.Rotation[2] += k.RotationRate.Z() * h.Next()
	p.Lifetime -= k.Decay
}

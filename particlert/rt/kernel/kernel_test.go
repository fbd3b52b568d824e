package kernel

import (
	"testing"

	"github.com/gekko3d/sparks/particlert/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_DeadParticleRespawns(t *testing.T) {
	for _, preset := range []Preset{Donut, Ring} {
		t.Run(preset.Name(), func(t *testing.T) {
			for idx := uint32(0); idx < 300; idx++ {
				p := core.Particle{Lifetime: 0.5, Rotation: mgl32.Vec3{1, 2, 3}}
				out := Invoke(preset, idx, &p)
				require.Equal(t, Spawned, out)

				assert.Equal(t, preset.Lifetime, p.Lifetime)
				assert.Equal(t, mgl32.Vec3{}, p.Rotation)

				s := p.Scale.X()
				assert.Equal(t, mgl32.Vec3{s, s, s}, p.Scale)
				assert.GreaterOrEqual(t, s, preset.ScaleRange[0])
				assert.LessOrEqual(t, s, preset.ScaleRange[1]+1e-5)

				assert.GreaterOrEqual(t, p.Position.Y(), preset.Height[0])
				assert.LessOrEqual(t, p.Position.Y(), preset.Height[1]+1e-4)

				flat := mgl32.Vec2{p.Position.X(), p.Position.Z()}.Len()
				if flat != 0 {
					assert.Greater(t, flat, preset.TorusMin)
					assert.LessOrEqual(t, flat, preset.TorusMax*(1+1e-5))
				}

				// matrices were rebuilt from the new record
				assert.InDelta(t, p.Position.X(), p.ModelMat[12], 1e-3)
				assert.InDelta(t, p.Position.Y(), p.ModelMat[13], 1e-3)
				assert.InDelta(t, p.Position.Z(), p.ModelMat[14], 1e-3)
			}
		})
	}
}

func TestInvoke_LivingParticleTicks(t *testing.T) {
	start := core.Particle{
		Position: mgl32.Vec3{100, 5, -300},
		Scale:    mgl32.Vec3{0.5, 0.5, 0.5},
		Rotation: mgl32.Vec3{0.1, 0.2, 0.3},
		Lifetime: 500,
	}

	p := start
	require.Equal(t, Ticked, Invoke(Donut, 17, &p))
	assert.Equal(t, start.Position, p.Position)
	assert.Equal(t, start.Scale, p.Scale)
	assert.Equal(t, float32(499), p.Lifetime)
	for axis := 0; axis < 3; axis++ {
		delta := p.Rotation[axis] - start.Rotation[axis]
		assert.GreaterOrEqual(t, delta, float32(0))
		assert.LessOrEqual(t, delta, Donut.RotationRate[axis]+1e-7)
	}

	// the ring variant spins but never ages
	r := start
	require.Equal(t, Ticked, Invoke(Ring, 17, &r))
	assert.Equal(t, float32(500), r.Lifetime)
}

func TestInvoke_ThresholdBoundary(t *testing.T) {
	p := core.Particle{Lifetime: 1}
	assert.Equal(t, Ticked, Invoke(Donut, 0, &p))
	assert.Equal(t, float32(0), p.Lifetime)

	// now below the threshold
	assert.Equal(t, Spawned, Invoke(Donut, 0, &p))
	assert.Equal(t, Donut.Lifetime, p.Lifetime)
}

func TestInvoke_DeterministicPerIndex(t *testing.T) {
	var a, b core.Particle
	Invoke(Donut, 42, &a)
	Invoke(Donut, 42, &b)
	assert.Equal(t, a, b)

	var c core.Particle
	Invoke(Donut, 43, &c)
	assert.NotEqual(t, a.Position, c.Position)
}

func TestPreset_SpawnOrderMatters(t *testing.T) {
	first := Donut
	first.ScaleFirst = true

	var a, b core.Particle
	Invoke(Donut, 9, &a)
	Invoke(first, 9, &b)
	assert.NotEqual(t, a.Position, b.Position)
}

func TestPreset_SpawnSequence(t *testing.T) {
	// donut draws position, height, scale; ring draws scale first.
	// ring slot 1 rejects its first torus candidate.
	tests := []struct {
		preset Preset
		index  uint32
		pos    mgl32.Vec3
		scale  float32
	}{
		{Donut, 0, mgl32.Vec3{253.86548, -20.080763, 608.18695}, 0.8107577},
		{Donut, 5, mgl32.Vec3{-360.6525, 16.501122, -1797.6359}, 0.10205757},
		{Ring, 0, mgl32.Vec3{4407.399, 28.973076, -1076.2052}, 0.45432785},
		{Ring, 1, mgl32.Vec3{-952.9117, 18.468834, 4191.29}, 2.0109844},
	}

	for _, tc := range tests {
		var p core.Particle
		require.Equal(t, Spawned, Invoke(tc.preset, tc.index, &p))
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, tc.pos[axis], p.Position[axis], 0.05, "%s slot %d axis %d", tc.preset.Name(), tc.index, axis)
		}
		assert.InDelta(t, tc.scale, p.Scale.X(), 1e-5, "%s slot %d", tc.preset.Name(), tc.index)
		assert.Equal(t, tc.preset.Lifetime, p.Lifetime)
	}
}

func TestBuiltins(t *testing.T) {
	b := Builtins()
	require.Contains(t, b, "donut")
	require.Contains(t, b, "ring")
	assert.Equal(t, float32(1), b["donut"].Decay)
	assert.Equal(t, float32(0), b["ring"].Decay)
}

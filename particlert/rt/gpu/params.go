package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/sparks/particlert/rt/kernel"
)

// ParamsSize is the size of the Params uniform block in particle_tick.wgsl.
const ParamsSize = 64

// EncodeParams packs a preset and the slot count into the uniform layout:
//
//	0  count u32, decay, torus_min, torus_max
//	16 height vec2, scale_range vec2
//	32 rotation_rate vec3, lifetime
//	48 scale_first u32, 3x pad
func EncodeParams(p kernel.Preset, count uint32) []byte {
	data := make([]byte, ParamsSize)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
	}

	binary.LittleEndian.PutUint32(data[0:], count)
	put(4, p.Decay)
	put(8, p.TorusMin)
	put(12, p.TorusMax)
	put(16, p.Height[0])
	put(20, p.Height[1])
	put(24, p.ScaleRange[0])
	put(28, p.ScaleRange[1])
	put(32, p.RotationRate.X())
	put(36, p.RotationRate.Y())
	put(40, p.RotationRate.Z())
	put(44, p.Lifetime)
	if p.ScaleFirst {
		binary.LittleEndian.PutUint32(data[48:], 1)
	}
	return data
}

// Workgroups returns the dispatch size for count slots.
func Workgroups(count uint32) uint32 {
	return (count + kernel.GroupSize - 1) / kernel.GroupSize
}

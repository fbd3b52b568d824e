package core

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ParticleStride is the size of one Particle in the GPU storage buffer:
// two mat4x4<f32> followed by four vec4-aligned rows
// (pos+lifetime, rot, scale, vel).
const ParticleStride = 64 + 64 + 4*16

// EncodeParticles packs particles in the little-endian storage layout.
func EncodeParticles(particles []Particle) []byte {
	data := make([]byte, len(particles)*ParticleStride)
	for i := range particles {
		encodeParticle(data[i*ParticleStride:(i+1)*ParticleStride], &particles[i])
	}
	return data
}

// DecodeParticles unpacks data into dst. data must hold exactly len(dst) records.
func DecodeParticles(data []byte, dst []Particle) error {
	if len(data)%ParticleStride != 0 {
		return fmt.Errorf("particle data size %d is not a multiple of stride %d", len(data), ParticleStride)
	}
	if n := len(data) / ParticleStride; n != len(dst) {
		return fmt.Errorf("particle data holds %d records, destination has %d slots", n, len(dst))
	}
	for i := range dst {
		decodeParticle(data[i*ParticleStride:(i+1)*ParticleStride], &dst[i])
	}
	return nil
}

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func getF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func encodeParticle(b []byte, p *Particle) {
	// mgl32 matrices are column-major, same as WGSL
	for i := 0; i < 16; i++ {
		putF32(b, i*4, p.ModelMat[i])
		putF32(b, 64+i*4, p.RotMat[i])
	}
	rows := [4]paddedVec3{
		{p.Position, p.Lifetime},
		{p.Rotation, 0},
		{p.Scale, 0},
		{p.Velocity, 0},
	}
	for r, row := range rows {
		off := 128 + r*16
		putF32(b, off, row.v[0])
		putF32(b, off+4, row.v[1])
		putF32(b, off+8, row.v[2])
		putF32(b, off+12, row.w)
	}
}

func decodeParticle(b []byte, p *Particle) {
	for i := 0; i < 16; i++ {
		p.ModelMat[i] = getF32(b, i*4)
		p.RotMat[i] = getF32(b, 64+i*4)
	}
	vec := func(off int) [3]float32 {
		return [3]float32{getF32(b, off), getF32(b, off+4), getF32(b, off+8)}
	}
	p.Position = vec(128)
	p.Lifetime = getF32(b, 128+12)
	p.Rotation = vec(144)
	p.Scale = vec(160)
	p.Velocity = vec(176)
}

type paddedVec3 struct {
	v [3]float32
	w float32
}

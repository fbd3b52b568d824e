package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DeathThreshold is the lifetime below which a record counts as dead and is
// respawned on its next invocation.
const DeathThreshold float32 = 1.0

// Particle is one slot of the particle buffer.
// Field order matches the std430 struct in particle_tick.wgsl, see EncodeParticles.
type Particle struct {
	ModelMat mgl32.Mat4
	RotMat   mgl32.Mat4

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // radians around x, y, z
	Scale    mgl32.Vec3
	Velocity mgl32.Vec3
	Lifetime float32
}

func (p *Particle) Dead() bool {
	return p.Lifetime < DeathThreshold
}

// ComputeMatrices rebuilds RotMat and ModelMat from the record's fields.
// RotMat = Rz * Ry * Rx and ModelMat = T * RotMat * S (column vectors).
func ComputeMatrices(p *Particle) {
	rot := mgl32.HomogRotate3DZ(p.Rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(p.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(p.Rotation.X()))
	p.RotMat = rot

	translate := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	scale := mgl32.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z())
	p.ModelMat = translate.Mul4(rot).Mul4(scale)
}

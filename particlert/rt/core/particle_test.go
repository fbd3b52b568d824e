package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticleDead(t *testing.T) {
	tests := []struct {
		lifetime float32
		dead     bool
	}{
		{0, true},
		{0.999, true},
		{1, false},
		{1000, false},
	}
	for _, tc := range tests {
		p := Particle{Lifetime: tc.lifetime}
		assert.Equal(t, tc.dead, p.Dead(), "lifetime %v", tc.lifetime)
	}
}

func TestComputeMatrices_Identity(t *testing.T) {
	p := Particle{Scale: mgl32.Vec3{1, 1, 1}}
	ComputeMatrices(&p)

	assert.True(t, p.RotMat.ApproxEqual(mgl32.Ident4()))
	assert.True(t, p.ModelMat.ApproxEqual(mgl32.Ident4()))
}

func TestComputeMatrices_TranslateRotateScale(t *testing.T) {
	p := Particle{
		Position: mgl32.Vec3{10, 20, 30},
		Rotation: mgl32.Vec3{0, mgl32.DegToRad(90), 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	ComputeMatrices(&p)

	// +X scaled by 2, turned 90 degrees around Y lands on -Z, then translated
	got := p.ModelMat.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDelta(t, 10, got.X(), 1e-4)
	assert.InDelta(t, 20, got.Y(), 1e-4)
	assert.InDelta(t, 28, got.Z(), 1e-4)

	// RotMat carries no translation or scale
	dir := p.RotMat.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	assert.InDelta(t, 1, dir.Len(), 1e-5)
}

func TestComputeMatrices_RotationOrder(t *testing.T) {
	p := Particle{
		Rotation: mgl32.Vec3{0.3, 0.5, 0.7},
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	ComputeMatrices(&p)

	want := mgl32.HomogRotate3DZ(0.7).Mul4(mgl32.HomogRotate3DY(0.5)).Mul4(mgl32.HomogRotate3DX(0.3))
	assert.True(t, p.RotMat.ApproxEqualThreshold(want, 1e-6))
}

func TestTransform_WorldToObjectInvertsObjectToWorld(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{5, -3, 2},
		Rotation: mgl32.Vec3{0.1, 1.2, -0.4},
		Scale:    mgl32.Vec3{2, 3, 0.5},
	}
	m := tr.WorldToObject().Mul4(tr.ObjectToWorld())
	assert.True(t, m.ApproxEqualThreshold(mgl32.Ident4(), 1e-5), "got %v", m)
}

func TestBuffer(t *testing.T) {
	buf := NewBuffer(4)
	require.Equal(t, 4, buf.Len())
	assert.Equal(t, 0, buf.Alive())

	buf.At(1).Lifetime = 10
	buf.At(3).Lifetime = 1
	assert.Equal(t, 2, buf.Alive())

	buf.Resize(6)
	assert.Equal(t, 6, buf.Len())
	assert.Equal(t, 0, buf.Alive(), "resize resets all slots")

	buf.Resize(-1)
	assert.Equal(t, 0, buf.Len())
}

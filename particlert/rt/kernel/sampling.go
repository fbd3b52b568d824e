package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TorusAttempts bounds the rejection loop in PosInTorus.
const TorusAttempts = 16

var up = mgl32.Vec3{0, 1, 0}

// RandomDiskPoint maps rand (components in [-1,1]) to a point in the unit disk
// perpendicular to normal. normal must have unit length.
// A zero rand yields the zero vector.
func RandomDiskPoint(rand, normal mgl32.Vec3) mgl32.Vec3 {
	r := rand.X()*0.5 + 0.5
	angle := (rand.Y() + 1.0) * math.Pi
	sr := float32(math.Sqrt(float64(r)))
	px := sr * float32(math.Cos(float64(angle)))
	py := sr * float32(math.Sin(float64(angle)))

	l := rand.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	tangent := rand.Mul(1 / l)
	bitangent := tangent.Cross(normal)
	tangent = bitangent.Cross(normal)

	return tangent.Mul(px).Add(bitangent.Mul(py))
}

// PosInTorus rejection-samples a point in the flat annulus minR < |p| <= maxR
// on the XZ plane. It gives up after TorusAttempts draws and returns the origin.
func PosInTorus(h *Hash, minR, maxR float32) mgl32.Vec3 {
	for i := 0; i < TorusAttempts; i++ {
		randPos := h.Vec3().Mul(2).Sub(mgl32.Vec3{1, 1, 1})
		pos := RandomDiskPoint(randPos, up).Mul(maxR)
		if pos.Len() > minR {
			return pos
		}
	}
	return mgl32.Vec3{}
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

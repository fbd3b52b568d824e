package kernel

import (
	"fmt"

	"github.com/gekko3d/sparks/particlert/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape selects the spawn volume of a ShapeKernel.
type Shape uint32

const (
	ShapeBox Shape = iota
	ShapeSphere
	// ShapePlane and ShapeDisc lie in the XY plane, the Z size is ignored.
	ShapePlane
	ShapeDisc
)

var shapeNames = map[Shape]string{
	ShapeBox:    "box",
	ShapeSphere: "sphere",
	ShapePlane:  "plane",
	ShapeDisc:   "disc",
}

func ValidShape(s Shape) bool {
	_, ok := shapeNames[s]
	return ok
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", uint32(s))
}

// ParseShape resolves a shape by name.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidShape, name)
}

// ShapeKernel spawns uniformly inside a simple emitter shape.
// Size holds the half extents (box, plane) or radii (sphere, disc).
type ShapeKernel struct {
	Shape Shape
	Size  mgl32.Vec3

	ScaleRange   [2]float32
	Lifetime     float32
	RotationRate mgl32.Vec3
	Decay        float32
}

// NewShapeKernel returns a kernel with the Donut timing and a unit size.
func NewShapeKernel(shape Shape) (*ShapeKernel, error) {
	if !ValidShape(shape) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShape, uint32(shape))
	}
	return &ShapeKernel{
		Shape:        shape,
		Size:         mgl32.Vec3{1, 1, 1},
		ScaleRange:   Donut.ScaleRange,
		Lifetime:     Donut.Lifetime,
		RotationRate: Donut.RotationRate,
		Decay:        Donut.Decay,
	}, nil
}

func (k *ShapeKernel) Name() string { return k.Shape.String() }

func (k *ShapeKernel) Spawn(h *Hash, p *core.Particle) {
	var local mgl32.Vec3
	switch k.Shape {
	case ShapeBox:
		local = h.Vec3().Mul(2).Sub(mgl32.Vec3{1, 1, 1})
	case ShapeSphere:
		local = posInBall(h)
	case ShapePlane:
		x := h.Next()*2 - 1
		y := h.Next()*2 - 1
		local = mgl32.Vec3{x, y, 0}
	case ShapeDisc:
		local = RandomDiskPoint(h.Vec3().Mul(2).Sub(mgl32.Vec3{1, 1, 1}), mgl32.Vec3{0, 0, 1})
	}
	s := lerp(k.ScaleRange[0], k.ScaleRange[1], h.Next())

	p.Position = mgl32.Vec3{local.X() * k.Size.X(), local.Y() * k.Size.Y(), local.Z() * k.Size.Z()}
	p.Scale = mgl32.Vec3{s, s, s}
	p.Rotation = mgl32.Vec3{}
	p.Velocity = mgl32.Vec3{}
	p.Lifetime = k.Lifetime
}

func (k *ShapeKernel) Tick(h *Hash, p *core.Particle) {
	p.Rotation[0] += k.RotationRate.X() * h.Next()
	p.Rotation[1] += k.RotationRate.Y() * h.Next()
	p.Rotation[2] += k.RotationRate.Z() * h.Next()
	p.Lifetime -= k.Decay
}

// posInBall rejection-samples the unit ball with the same retry bound as the torus.
func posInBall(h *Hash) mgl32.Vec3 {
	for i := 0; i < TorusAttempts; i++ {
		p := h.Vec3().Mul(2).Sub(mgl32.Vec3{1, 1, 1})
		if p.Dot(p) <= 1 {
			return p
		}
	}
	return mgl32.Vec3{}
}

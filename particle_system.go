package sparks

import (
	"context"
	"errors"
	"fmt"

	"github.com/gekko3d/sparks/particlert/rt/core"
	"github.com/gekko3d/sparks/particlert/rt/kernel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	ErrInvalidShape = kernel.ErrInvalidShape
	ErrNilKernel    = kernel.ErrNilKernel
	ErrInvalidCount = errors.New("particle count must not be negative")
)

// Backend runs a control kernel over a particle buffer.
type Backend interface {
	Name() string
	Run(ctx context.Context, k kernel.Kernel, buf *core.Buffer) (kernel.Stats, error)
}

// CPUBackend dispatches on a goroutine pool, GroupSize invocations per task.
type CPUBackend struct {
	Workers int
}

func (b CPUBackend) Name() string { return "cpu" }

func (b CPUBackend) Run(ctx context.Context, k kernel.Kernel, buf *core.Buffer) (kernel.Stats, error) {
	return kernel.Dispatch(ctx, k, buf, kernel.DispatchOptions{Workers: b.Workers})
}

// ParticleSystem owns a fixed number of particle slots, the emitter transform
// and the control kernel run over them every update.
type ParticleSystem struct {
	id        uuid.UUID
	transform core.Transform
	shape     kernel.Shape
	kernel    kernel.Kernel
	backend   Backend
	buf       *core.Buffer
	updates   uint64
}

type ParticleSystemOption func(*ParticleSystem) error

func WithKernel(k kernel.Kernel) ParticleSystemOption {
	return func(ps *ParticleSystem) error { return ps.SetKernel(k) }
}

func WithShape(s kernel.Shape) ParticleSystemOption {
	return func(ps *ParticleSystem) error { return ps.SetShape(s) }
}

func WithTransform(t core.Transform) ParticleSystemOption {
	return func(ps *ParticleSystem) error {
		ps.SetTransform(t)
		return nil
	}
}

func WithBackend(b Backend) ParticleSystemOption {
	return func(ps *ParticleSystem) error {
		if b == nil {
			return errors.New("nil particle backend")
		}
		ps.backend = b
		return nil
	}
}

// NewParticleSystem allocates count dead slots. Without a kernel option the
// system has no control program and Update leaves the slots untouched.
func NewParticleSystem(count int, opts ...ParticleSystemOption) (*ParticleSystem, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	ps := &ParticleSystem{
		id:        uuid.New(),
		transform: core.NewTransform(),
		shape:     kernel.ShapeBox,
		backend:   CPUBackend{},
		buf:       core.NewBuffer(count),
	}
	for _, opt := range opts {
		if err := opt(ps); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func (ps *ParticleSystem) ID() uuid.UUID { return ps.id }

func (ps *ParticleSystem) Count() int { return ps.buf.Len() }

// SetCount resizes the slot array. All particles are reset, so avoid calling
// this every frame.
func (ps *ParticleSystem) SetCount(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	ps.buf.Resize(count)
	return nil
}

func (ps *ParticleSystem) Buffer() *core.Buffer { return ps.buf }

func (ps *ParticleSystem) Alive() int { return ps.buf.Alive() }

func (ps *ParticleSystem) Updates() uint64 { return ps.updates }

func (ps *ParticleSystem) Transform() core.Transform     { return ps.transform }
func (ps *ParticleSystem) SetTransform(t core.Transform) { ps.transform = t }

func (ps *ParticleSystem) Position() mgl32.Vec3        { return ps.transform.Position }
func (ps *ParticleSystem) SetPosition(pos mgl32.Vec3) { ps.transform.Position = pos }
func (ps *ParticleSystem) Rotation() mgl32.Vec3        { return ps.transform.Rotation }
func (ps *ParticleSystem) SetRotation(rot mgl32.Vec3) { ps.transform.Rotation = rot }
func (ps *ParticleSystem) Scale() mgl32.Vec3           { return ps.transform.Scale }
func (ps *ParticleSystem) SetScale(scale mgl32.Vec3) { ps.transform.Scale = scale }

func (ps *ParticleSystem) Shape() kernel.Shape { return ps.shape }

// SetShape changes the emitter shape. If the current kernel is a ShapeKernel
// it follows the new shape.
func (ps *ParticleSystem) SetShape(s kernel.Shape) error {
	if !kernel.ValidShape(s) {
		return fmt.Errorf("%w: shape identifier %d doesn't name a valid shape", ErrInvalidShape, uint32(s))
	}
	ps.shape = s
	if sk, ok := ps.kernel.(*kernel.ShapeKernel); ok {
		sk.Shape = s
	}
	return nil
}

func (ps *ParticleSystem) Kernel() kernel.Kernel { return ps.kernel }

func (ps *ParticleSystem) SetKernel(k kernel.Kernel) error {
	if k == nil {
		return ErrNilKernel
	}
	ps.kernel = k
	return nil
}

// UseShapeKernel installs a ShapeKernel for the current shape.
func (ps *ParticleSystem) UseShapeKernel() (*kernel.ShapeKernel, error) {
	sk, err := kernel.NewShapeKernel(ps.shape)
	if err != nil {
		return nil, err
	}
	ps.kernel = sk
	return sk, nil
}

func (ps *ParticleSystem) Backend() Backend { return ps.backend }

// Update runs the control kernel once over every slot.
func (ps *ParticleSystem) Update(ctx context.Context) (kernel.Stats, error) {
	if ps.kernel == nil {
		return kernel.Stats{}, nil
	}
	stats, err := ps.backend.Run(ctx, ps.kernel, ps.buf)
	if err != nil {
		return stats, fmt.Errorf("particle system %s: %s dispatch: %w", ps.id, ps.backend.Name(), err)
	}
	ps.updates++
	return stats, nil
}

// WorldMatrix is the emitter transform applied on top of particle i's model matrix.
func (ps *ParticleSystem) WorldMatrix(i int) mgl32.Mat4 {
	return ps.transform.ObjectToWorld().Mul4(ps.buf.At(i).ModelMat)
}

// WorldPosition is the world-space origin of particle i.
func (ps *ParticleSystem) WorldPosition(i int) mgl32.Vec3 {
	return ps.WorldMatrix(i).Col(3).Vec3()
}

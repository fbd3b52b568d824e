package sparks

import (
	"context"

	"github.com/gekko3d/sparks/particlert/rt/core"
	"github.com/gekko3d/sparks/particlert/rt/gpu"
	"github.com/gekko3d/sparks/particlert/rt/kernel"
)

// GPUBackend uploads the slots, runs the WGSL port of the kernel and reads
// the slots back within a single Run.
type GPUBackend struct {
	Manager *gpu.ComputeManager
}

// NewGPUBackend opens a headless device and compiles the particle pipeline.
func NewGPUBackend() (*GPUBackend, error) {
	device, err := gpu.NewHeadlessDevice()
	if err != nil {
		return nil, err
	}
	manager, err := gpu.NewComputeManager(device)
	if err != nil {
		device.Release()
		return nil, err
	}
	return &GPUBackend{Manager: manager}, nil
}

func (b *GPUBackend) Name() string { return "gpu" }

func (b *GPUBackend) Run(ctx context.Context, k kernel.Kernel, buf *core.Buffer) (kernel.Stats, error) {
	if err := ctx.Err(); err != nil {
		return kernel.Stats{}, err
	}
	particles := buf.Slice()
	stats := kernel.Stats{Groups: kernel.Groups(len(particles))}
	for i := range particles {
		if particles[i].Dead() {
			stats.Spawned++
		}
	}
	stats.Ticked = len(particles) - stats.Spawned

	if err := b.Manager.SetKernel(k); err != nil {
		return kernel.Stats{}, err
	}
	if err := b.Manager.Upload(particles); err != nil {
		return kernel.Stats{}, err
	}
	if err := b.Manager.Dispatch(); err != nil {
		return kernel.Stats{}, err
	}
	if err := b.Manager.Readback(particles); err != nil {
		return kernel.Stats{}, err
	}
	return stats, nil
}

func (b *GPUBackend) Release() {
	if b.Manager == nil {
		return
	}
	device := b.Manager.Device
	b.Manager.Release()
	if device != nil {
		device.Release()
	}
	b.Manager = nil
}

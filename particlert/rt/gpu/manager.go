package gpu

import (
	"errors"
	"fmt"

	"github.com/gekko3d/sparks/particlert/rt/core"
	"github.com/gekko3d/sparks/particlert/rt/kernel"
	"github.com/gekko3d/sparks/particlert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

var ErrKernelNotSupported = errors.New("kernel cannot run on the GPU")

// ComputeManager owns the buffers and pipeline of a GPU particle dispatch.
type ComputeManager struct {
	Device *wgpu.Device

	ParticleBuf *wgpu.Buffer
	ParamsBuf   *wgpu.Buffer
	StagingBuf  *wgpu.Buffer

	Pipeline  *wgpu.ComputePipeline
	BindGroup *wgpu.BindGroup

	queue  bufferWriter
	count  uint32
	preset *kernel.Preset
}

// bufferWriter is the part of *wgpu.Queue the manager writes through.
type bufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

// NewHeadlessDevice picks a high-performance adapter with no surface attached.
func NewHeadlessDevice() (*wgpu.Device, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	defer adapter.Release()

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Particle Compute Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	return device, nil
}

func NewComputeManager(device *wgpu.Device) (*ComputeManager, error) {
	m := &ComputeManager{Device: device, queue: device.GetQueue()}
	if err := m.CreatePipeline(shaders.ParticleTickWGSL); err != nil {
		return nil, err
	}
	return m, nil
}

// CreatePipeline compiles the control shader.
func (m *ComputeManager) CreatePipeline(shaderCode string) error {
	shaderModule, err := m.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "ParticleTickShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaderCode,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create particle shader module: %w", err)
	}
	defer shaderModule.Release()

	m.Pipeline, err = m.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "ParticleTickPipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shaderModule,
			EntryPoint: shaders.ParticleTickEntryPoint,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create particle pipeline: %w", err)
	}
	return nil
}

// Upload (re)creates the storage buffers when the slot count changes and
// writes the records.
func (m *ComputeManager) Upload(particles []core.Particle) error {
	count := uint32(len(particles))
	size := uint64(count) * core.ParticleStride
	if size == 0 {
		size = core.ParticleStride
	}

	if m.ParticleBuf == nil || m.ParticleBuf.GetSize() != size {
		m.releaseParticleBuffers()

		var err error
		m.ParticleBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ParticleBuf",
			Size:  size,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
		})
		if err != nil {
			return fmt.Errorf("failed to create particle buffer: %w", err)
		}
		m.StagingBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ParticleStagingBuf",
			Size:  size,
			Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create staging buffer: %w", err)
		}
		if err := m.createBindGroup(); err != nil {
			return err
		}
	}

	if err := m.writeParticles(particles); err != nil {
		return err
	}
	m.count = count
	// the uniform carries the slot count
	return m.writeParams()
}

func (m *ComputeManager) writeParticles(particles []core.Particle) error {
	if len(particles) == 0 {
		return nil
	}
	if err := m.queue.WriteBuffer(m.ParticleBuf, 0, core.EncodeParticles(particles)); err != nil {
		return fmt.Errorf("failed to write particle buffer: %w", err)
	}
	return nil
}

// SetKernel writes the uniform block for k. Only presets have a GPU port.
func (m *ComputeManager) SetKernel(k kernel.Kernel) error {
	var preset kernel.Preset
	switch v := k.(type) {
	case kernel.Preset:
		preset = v
	case *kernel.Preset:
		preset = *v
	default:
		return fmt.Errorf("%w: %T", ErrKernelNotSupported, k)
	}

	if m.ParamsBuf == nil {
		var err error
		m.ParamsBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "ParticleParamsBuf",
			Size:  ParamsSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create params buffer: %w", err)
		}
		if m.ParticleBuf != nil {
			if err := m.createBindGroup(); err != nil {
				return err
			}
		}
	}
	m.preset = &preset
	return m.writeParams()
}

func (m *ComputeManager) writeParams() error {
	if m.ParamsBuf == nil || m.preset == nil {
		return nil
	}
	if err := m.queue.WriteBuffer(m.ParamsBuf, 0, EncodeParams(*m.preset, m.count)); err != nil {
		return fmt.Errorf("failed to write particle params: %w", err)
	}
	return nil
}

func (m *ComputeManager) createBindGroup() error {
	if m.ParticleBuf == nil || m.ParamsBuf == nil {
		return nil
	}
	if m.BindGroup != nil {
		m.BindGroup.Release()
	}

	layout := m.Pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	var err error
	m.BindGroup, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.ParticleBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: m.ParamsBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create particle bind group: %w", err)
	}
	return nil
}

// Dispatch runs one control pass over every uploaded slot.
func (m *ComputeManager) Dispatch() error {
	if m.count == 0 {
		return nil
	}
	if m.BindGroup == nil {
		return fmt.Errorf("particle bind group not created, call Upload and SetKernel first")
	}

	encoder, err := m.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(m.Pipeline)
	computePass.SetBindGroup(0, m.BindGroup, nil)
	computePass.DispatchWorkgroups(Workgroups(m.count), 1, 1)
	computePass.End()

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	m.Device.GetQueue().Submit(cmdBuf)
	return nil
}

// Readback copies the storage buffer back into dst, blocking until the GPU is done.
func (m *ComputeManager) Readback(dst []core.Particle) error {
	if uint32(len(dst)) != m.count {
		return fmt.Errorf("readback into %d slots, %d uploaded", len(dst), m.count)
	}
	if m.count == 0 {
		return nil
	}
	size := uint64(m.count) * core.ParticleStride

	encoder, err := m.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	encoder.CopyBufferToBuffer(m.ParticleBuf, 0, m.StagingBuf, 0, size)
	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	m.Device.GetQueue().Submit(cmdBuf)

	var status wgpu.BufferMapAsyncStatus
	err = m.StagingBuf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return fmt.Errorf("failed to map staging buffer: %w", err)
	}
	m.Device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return fmt.Errorf("failed to map staging buffer: status %v", status)
	}
	defer m.StagingBuf.Unmap()

	mapped := m.StagingBuf.GetMappedRange(0, uint(size))
	return core.DecodeParticles(mapped, dst)
}

func (m *ComputeManager) releaseParticleBuffers() {
	if m.ParticleBuf != nil {
		m.ParticleBuf.Release()
		m.ParticleBuf = nil
	}
	if m.StagingBuf != nil {
		m.StagingBuf.Release()
		m.StagingBuf = nil
	}
}

func (m *ComputeManager) Release() {
	m.releaseParticleBuffers()
	if m.BindGroup != nil {
		m.BindGroup.Release()
		m.BindGroup = nil
	}
	if m.ParamsBuf != nil {
		m.ParamsBuf.Release()
		m.ParamsBuf = nil
	}
	if m.Pipeline != nil {
		m.Pipeline.Release()
		m.Pipeline = nil
	}
}

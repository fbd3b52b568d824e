package sparks

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gekko3d/sparks/particlert/rt/core"
	"github.com/gekko3d/sparks/particlert/rt/kernel"

	"gopkg.in/gcfg.v1"
)

var ErrUnknownPreset = errors.New("unknown kernel preset")

// KernelConfig is one [Kernel "name"] section. Keys missing from the section
// stay nil and take the value of the Base preset, which defaults to the
// built-in of the same name and otherwise to donut. A key that is present
// always applies, zero and false included.
type KernelConfig struct {
	Base string

	TorusMin, TorusMax   *float64
	HeightMin, HeightMax *float64
	ScaleMin, ScaleMax   *float64
	Lifetime             *float64

	RotationX, RotationY, RotationZ *float64

	Decay      *float64
	ScaleFirst *bool
}

// SystemConfig is the [System] section.
type SystemConfig struct {
	Count   int
	Kernel  string
	Shape   string
	Workers int
	Backend string
	Frames  int
	// Spin is the emitter rotation around Y, in radians per second.
	Spin float64
}

type Config struct {
	System SystemConfig
	Kernel map[string]*KernelConfig
}

func DefaultConfig() Config {
	return Config{
		System: SystemConfig{
			Count:   1 << 16,
			Kernel:  kernel.Donut.Label,
			Backend: "cpu",
			Frames:  600,
		},
	}
}

const ExampleConfig = `[System]
Count = 65536
Kernel = wide-ring
Backend = cpu
Workers = 0
Frames = 600
Spin = 0.5

[Kernel "wide-ring"]
Base = ring
TorusMin = 3000
TorusMax = 8000
ScaleMax = 3

[Kernel "slow-donut"]
Base = donut
Lifetime = 4000
Decay = 2
`

// ReadConfig reads a gcfg file on top of DefaultConfig.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return cfg, cfg.check()
}

// ParseConfig parses gcfg text on top of DefaultConfig.
func ParseConfig(text string) (Config, error) {
	cfg := DefaultConfig()
	if err := gcfg.ReadStringInto(&cfg, text); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.check()
}

func (cfg *Config) check() error {
	if cfg.System.Count < 0 {
		return fmt.Errorf("System.Count must be non-negative, but is %d", cfg.System.Count)
	}
	if cfg.System.Workers < 0 {
		return fmt.Errorf("System.Workers must be non-negative, but is %d", cfg.System.Workers)
	}
	switch strings.ToLower(cfg.System.Backend) {
	case "", "cpu", "gpu":
	default:
		return fmt.Errorf("System.Backend must be cpu or gpu, but is '%s'", cfg.System.Backend)
	}
	if cfg.System.Shape != "" {
		if _, err := kernel.ParseShape(cfg.System.Shape); err != nil {
			return err
		}
	}
	for name := range cfg.Kernel {
		if _, err := cfg.Preset(name); err != nil {
			return err
		}
	}
	if cfg.System.Kernel != "" {
		if _, err := cfg.Preset(cfg.System.Kernel); err != nil {
			return err
		}
	}
	return nil
}

// Preset resolves a kernel by name: configured sections first, then the
// built-ins.
func (cfg *Config) Preset(name string) (kernel.Preset, error) {
	builtins := kernel.Builtins()
	kc, ok := cfg.Kernel[name]
	if !ok {
		if p, ok := builtins[strings.ToLower(name)]; ok {
			return p, nil
		}
		return kernel.Preset{}, fmt.Errorf("%w '%s', known presets: %s", ErrUnknownPreset, name, strings.Join(cfg.PresetNames(), ", "))
	}

	baseName := kc.Base
	if baseName == "" {
		baseName = name
		if _, ok := builtins[strings.ToLower(baseName)]; !ok {
			baseName = kernel.Donut.Label
		}
	}
	base, ok := builtins[strings.ToLower(baseName)]
	if !ok {
		return kernel.Preset{}, fmt.Errorf("%w '%s' used as base of Kernel '%s'", ErrUnknownPreset, baseName, name)
	}
	return kc.apply(name, base)
}

func (kc *KernelConfig) apply(name string, p kernel.Preset) (kernel.Preset, error) {
	p.Label = name
	override := func(dst *float32, v *float64) {
		if v != nil {
			*dst = float32(*v)
		}
	}
	override(&p.TorusMin, kc.TorusMin)
	override(&p.TorusMax, kc.TorusMax)
	override(&p.Height[0], kc.HeightMin)
	override(&p.Height[1], kc.HeightMax)
	override(&p.ScaleRange[0], kc.ScaleMin)
	override(&p.ScaleRange[1], kc.ScaleMax)
	override(&p.Lifetime, kc.Lifetime)
	override(&p.Decay, kc.Decay)
	override(&p.RotationRate[0], kc.RotationX)
	override(&p.RotationRate[1], kc.RotationY)
	override(&p.RotationRate[2], kc.RotationZ)
	if kc.ScaleFirst != nil {
		p.ScaleFirst = *kc.ScaleFirst
	}

	if p.TorusMin < 0 || p.TorusMax < p.TorusMin {
		return kernel.Preset{}, fmt.Errorf(
			"Kernel '%s' needs 0 <= TorusMin <= TorusMax, but has %g and %g",
			name, p.TorusMin, p.TorusMax,
		)
	} else if p.Height[1] < p.Height[0] {
		return kernel.Preset{}, fmt.Errorf(
			"Kernel '%s' needs HeightMin <= HeightMax, but has %g and %g",
			name, p.Height[0], p.Height[1],
		)
	} else if p.ScaleRange[1] < p.ScaleRange[0] {
		return kernel.Preset{}, fmt.Errorf(
			"Kernel '%s' needs ScaleMin <= ScaleMax, but has %g and %g",
			name, p.ScaleRange[0], p.ScaleRange[1],
		)
	} else if p.Lifetime < core.DeathThreshold {
		return kernel.Preset{}, fmt.Errorf(
			"Kernel '%s' needs Lifetime >= %g, but has %g",
			name, core.DeathThreshold, p.Lifetime,
		)
	}
	return p, nil
}

// PresetNames lists the built-in and configured preset names, sorted.
func (cfg *Config) PresetNames() []string {
	seen := map[string]bool{}
	for name := range kernel.Builtins() {
		seen[name] = true
	}
	for name := range cfg.Kernel {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSystem builds the particle system the [System] section describes. A
// configured Shape replaces the preset with a ShapeKernel. The backend is
// left to the caller; a nil backend keeps the CPU default.
func (cfg *Config) NewSystem(backend Backend) (*ParticleSystem, error) {
	opts := []ParticleSystemOption{}
	if backend != nil {
		opts = append(opts, WithBackend(backend))
	}
	if cfg.System.Shape != "" {
		shape, err := kernel.ParseShape(cfg.System.Shape)
		if err != nil {
			return nil, err
		}
		sk, err := kernel.NewShapeKernel(shape)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithShape(shape), WithKernel(sk))
	} else {
		name := cfg.System.Kernel
		if name == "" {
			name = kernel.Donut.Label
		}
		preset, err := cfg.Preset(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithKernel(preset))
	}
	if backend == nil && cfg.System.Workers > 0 {
		opts = append(opts, WithBackend(CPUBackend{Workers: cfg.System.Workers}))
	}
	return NewParticleSystem(cfg.System.Count, opts...)
}

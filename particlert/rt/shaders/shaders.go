package shaders

import (
	_ "embed"
)

//go:embed particle_tick.wgsl
var ParticleTickWGSL string

// ParticleTickEntryPoint is the compute entry point of ParticleTickWGSL.
const ParticleTickEntryPoint = "tick_particles"

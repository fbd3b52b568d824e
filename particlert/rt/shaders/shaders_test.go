package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticleTickWGSL(t *testing.T) {
	assert.NotEmpty(t, ParticleTickWGSL)
	assert.True(t, strings.Contains(ParticleTickWGSL, "fn "+ParticleTickEntryPoint+"("))
	assert.Contains(t, ParticleTickWGSL, "@workgroup_size(64, 1, 1)")
	// hash constants must match kernel.Hash
	for _, c := range []string{"15731u", "789221u", "1376312589u", "0x0fffffffu"} {
		assert.Contains(t, ParticleTickWGSL, c)
	}
}

package sparks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeModule(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{}).Build()

	tm, ok := Resource[Time](app)
	require.True(t, ok)
	start := tm.Time

	app.Step()
	app.Step()

	assert.Equal(t, uint64(2), tm.Frame)
	assert.False(t, tm.Time.Before(start))
	assert.GreaterOrEqual(t, tm.Dt.Nanoseconds(), int64(0))
}

func TestTimeModule_FixedStep(t *testing.T) {
	app := NewAppBuilder().UseModule(TimeModule{FixedStep: 20 * time.Millisecond}).Build()
	tm, ok := Resource[Time](app)
	require.True(t, ok)
	start := tm.Time

	for i := 0; i < 5; i++ {
		app.Step()
	}

	assert.Equal(t, 20*time.Millisecond, tm.Dt)
	assert.Equal(t, 100*time.Millisecond, tm.Elapsed)
	assert.Equal(t, start.Add(100*time.Millisecond), tm.Time)
	assert.Equal(t, uint64(5), tm.Frame)
}

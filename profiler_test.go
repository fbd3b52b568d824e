package sparks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfiler_Scopes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	p := NewProfiler()
	p.now = clock.Now

	p.BeginScope("dispatch")
	clock.now = clock.now.Add(3 * time.Millisecond)
	p.EndScope("dispatch")
	p.BeginScope("snapshot")
	clock.now = clock.now.Add(time.Millisecond)
	p.EndScope("snapshot")
	p.BeginScope("dispatch")
	clock.now = clock.now.Add(2 * time.Millisecond)
	p.EndScope("dispatch")

	assert.Equal(t, []string{"dispatch", "snapshot"}, p.Order)
	assert.Equal(t, 2*time.Millisecond, p.Scopes["dispatch"])
	assert.Equal(t, time.Millisecond, p.Scopes["snapshot"])

	p.EndScope("never-started")
	_, ok := p.Scopes["never-started"]
	assert.False(t, ok)
}

func TestProfiler_CountsAndString(t *testing.T) {
	p := NewProfiler()
	p.SetCount("ticked", 5)
	p.AddCount("ticked", 2)
	p.AddCount("spawned", 1)
	p.Scopes["dispatch"] = 1500 * time.Microsecond
	p.Order = append(p.Order, "dispatch")

	assert.Equal(t, "Timings (CPU):\n"+
		"  dispatch       : 1.50 ms\n"+
		"\nStats:\n"+
		"  spawned        : 1\n"+
		"  ticked         : 7\n", p.String())

	p.Reset()
	assert.Equal(t, 0, p.Counts["ticked"])
	assert.Equal(t, time.Duration(0), p.Scopes["dispatch"])
	assert.Equal(t, []string{"dispatch"}, p.Order)
}

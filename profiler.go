package sparks

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the latest duration of named scopes and named counters.
// ParticlesModule fills it every frame when the resource is present.
type Profiler struct {
	Scopes map[string]time.Duration
	Counts map[string]int
	Order  []string

	starts map[string]time.Time
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes: make(map[string]time.Duration),
		Counts: make(map[string]int),
		starts: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = p.now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
		delete(p.starts, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) AddCount(name string, count int) {
	p.Counts[name] += count
}

// Reset zeroes timings and counters but keeps the scope order.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	for k := range p.Counts {
		p.Counts[k] = 0
	}
}

func (p *Profiler) String() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms\n", name, ms))
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}
	return sb.String()
}

// ProfilerModule installs a Profiler and clears it at the start of each frame.
type ProfilerModule struct{}

func (mod ProfilerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewProfiler()).
		UseSystem(System(func(p *Profiler) { p.Reset() }).InStage(Prelude))
}

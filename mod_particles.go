package sparks

import (
	"context"
	"time"

	"github.com/gekko3d/sparks/particlert/rt/kernel"

	"github.com/google/uuid"
)

// ParticleWorld is the registry of particle systems updated every frame.
type ParticleWorld struct {
	systems []*ParticleSystem
	byID    map[uuid.UUID]*ParticleSystem

	// LastStats holds the dispatch stats of the latest frame, keyed by system.
	LastStats map[uuid.UUID]kernel.Stats
	Errors    int
}

func NewParticleWorld() *ParticleWorld {
	return &ParticleWorld{
		byID:      make(map[uuid.UUID]*ParticleSystem),
		LastStats: make(map[uuid.UUID]kernel.Stats),
	}
}

func (w *ParticleWorld) Add(systems ...*ParticleSystem) {
	for _, ps := range systems {
		if ps == nil {
			continue
		}
		if _, ok := w.byID[ps.ID()]; ok {
			continue
		}
		w.byID[ps.ID()] = ps
		w.systems = append(w.systems, ps)
	}
}

func (w *ParticleWorld) Remove(id uuid.UUID) bool {
	if _, ok := w.byID[id]; !ok {
		return false
	}
	delete(w.byID, id)
	delete(w.LastStats, id)
	for i, ps := range w.systems {
		if ps.ID() == id {
			w.systems = append(w.systems[:i], w.systems[i+1:]...)
			break
		}
	}
	return true
}

func (w *ParticleWorld) Get(id uuid.UUID) (*ParticleSystem, bool) {
	ps, ok := w.byID[id]
	return ps, ok
}

// Systems returns the registered systems in insertion order.
func (w *ParticleWorld) Systems() []*ParticleSystem { return w.systems }

func (w *ParticleWorld) Len() int { return len(w.systems) }

// Alive counts live particles over all systems.
func (w *ParticleWorld) Alive() int {
	alive := 0
	for _, ps := range w.systems {
		alive += ps.Alive()
	}
	return alive
}

// ParticlesModule installs a ParticleWorld with Systems and updates every
// registered system once per frame in the Update stage.
type ParticlesModule struct {
	Systems []*ParticleSystem
	// SpinPerSecond rotates every emitter around Y, in radians per second.
	SpinPerSecond float32
	Context       context.Context
}

func (mod ParticlesModule) Install(app *App, cmd *Commands) {
	world := NewParticleWorld()
	world.Add(mod.Systems...)
	ctx := mod.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.AddResources(world)
	app.UseSystem(System(func(w *ParticleWorld, log Logger) {
		profiler, _ := Resource[Profiler](app)
		particlesUpdateSystem(ctx, w, app.timeStep(), mod.SpinPerSecond, profiler, log)
	}).InStage(Update))
}

func (app *App) timeStep() time.Duration {
	if t, ok := Resource[Time](app); ok {
		return t.Dt
	}
	return 0
}

func particlesUpdateSystem(ctx context.Context, world *ParticleWorld, dt time.Duration, spin float32, profiler *Profiler, log Logger) {
	angle := spin * float32(dt.Seconds())
	for _, ps := range world.Systems() {
		if angle != 0 {
			rot := ps.Rotation()
			rot[1] += angle
			ps.SetRotation(rot)
		}
		if profiler != nil {
			profiler.BeginScope("dispatch")
		}
		stats, err := ps.Update(ctx)
		if profiler != nil {
			profiler.EndScope("dispatch")
			profiler.AddCount("spawned", stats.Spawned)
			profiler.AddCount("ticked", stats.Ticked)
		}
		if err != nil {
			world.Errors++
			log.Errorf("particles: %v", err)
			continue
		}
		world.LastStats[ps.ID()] = stats
	}
}

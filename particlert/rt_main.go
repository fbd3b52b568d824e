package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gekko3d/sparks"
)

type frameLimitModule struct {
	frames uint64
}

func (mod frameLimitModule) Install(app *sparks.App, cmd *sparks.Commands) {
	app.UseSystem(sparks.System(func(cmd *sparks.Commands) {
		if mod.frames > 0 && app.Frames()+1 >= mod.frames {
			cmd.Exit()
		}
	}).InStage(sparks.Finale))
}

func main() {
	configPath := flag.String("config", "", "gcfg file with [System] and [Kernel \"name\"] sections")
	kernelName := flag.String("kernel", "", "kernel preset, overrides System.Kernel")
	shapeName := flag.String("shape", "", "emitter shape (box, sphere, plane, disc), overrides the preset")
	count := flag.Int("count", -1, "particle slots, overrides System.Count")
	frames := flag.Int("frames", -1, "frames to run, 0 runs until interrupted")
	workers := flag.Int("workers", -1, "CPU dispatch workers, 0 uses GOMAXPROCS")
	backend := flag.String("backend", "", "cpu or gpu")
	snapshot := flag.String("snapshot", "", "write a top-down PNG of the final frame")
	snapshotSize := flag.Int("snapshot-size", 512, "snapshot width and height in pixels")
	scene := flag.String("scene", "", "write the emitters as a JSON scene on exit")
	exampleConfig := flag.Bool("example-config", false, "print an example config and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *exampleConfig {
		fmt.Print(sparks.ExampleConfig)
		return
	}

	logger := sparks.NewDefaultLogger("particlert", *debug)

	cfg := sparks.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = sparks.ReadConfig(*configPath); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	if *kernelName != "" {
		cfg.System.Kernel = *kernelName
	}
	if *shapeName != "" {
		cfg.System.Shape = *shapeName
	}
	if *count >= 0 {
		cfg.System.Count = *count
	}
	if *frames >= 0 {
		cfg.System.Frames = *frames
	}
	if *workers >= 0 {
		cfg.System.Workers = *workers
	}
	if *backend != "" {
		cfg.System.Backend = *backend
	}

	out := outputs{snapshot: *snapshot, snapshotSize: *snapshotSize, scene: *scene}
	if err := run(cfg, out, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

type outputs struct {
	snapshot     string
	snapshotSize int
	scene        string
}

// run owns every resource that needs releasing; main only exits after it returns.
func run(cfg sparks.Config, out outputs, logger sparks.Logger) error {
	var systemBackend sparks.Backend
	if strings.EqualFold(cfg.System.Backend, "gpu") {
		if cfg.System.Shape != "" {
			return fmt.Errorf("shape emitters only run on the cpu backend")
		}
		gpuBackend, err := sparks.NewGPUBackend()
		if err != nil {
			return err
		}
		defer gpuBackend.Release()
		systemBackend = gpuBackend
	}

	ps, err := cfg.NewSystem(systemBackend)
	if err != nil {
		return err
	}
	logger.Infof("%d slots, kernel %s, %s backend", ps.Count(), ps.Kernel().Name(), ps.Backend().Name())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := sparks.NewAppBuilder().
		UseModule(sparks.LoggingModule{Logger: logger}).
		UseModule(sparks.TimeModule{}).
		UseModule(sparks.ProfilerModule{}).
		UseModule(sparks.ParticlesModule{
			Systems:       []*sparks.ParticleSystem{ps},
			SpinPerSecond: float32(cfg.System.Spin),
			Context:       ctx,
		}).
		UseModule(sparks.StatsModule{}).
		UseModule(frameLimitModule{frames: uint64(cfg.System.Frames)}).
		Build()

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	if out.snapshot != "" {
		fps := 0.0
		if stats, ok := sparks.Resource[sparks.FrameStats](app); ok {
			fps = stats.FPS
		}
		img := sparks.RenderSnapshot(ps, out.snapshotSize, sparks.SnapshotLabel(ps, fps))
		if err := sparks.WriteSnapshotPNG(out.snapshot, img); err != nil {
			return err
		}
		logger.Infof("Wrote %s", out.snapshot)
	}
	if out.scene != "" {
		world, _ := sparks.Resource[sparks.ParticleWorld](app)
		if err := sparks.SaveScene(world, out.scene); err != nil {
			return err
		}
		logger.Infof("Wrote %s", out.scene)
	}
	return nil
}

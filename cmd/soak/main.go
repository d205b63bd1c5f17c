// Command soak drives the demo scene headlessly with random or scripted key
// input and checks after every frame that the player moved exactly
// speed×dt. It prints a report and exits non-zero on any violation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/screenspace/assets"
	"github.com/plus3/screenspace/config"
	"github.com/plus3/screenspace/ecs"
	"github.com/plus3/screenspace/input"
	"github.com/plus3/screenspace/logging"
	"github.com/plus3/screenspace/movement"
	"github.com/plus3/screenspace/scene"
	"github.com/plus3/screenspace/spatial"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file. Defaults are used when empty.")
	duration := flag.Duration("duration", 0, "The total duration the soak should run for (overrides soak.duration).")
	interval := flag.Duration("interval", 0, "The frame time (overrides soak.interval).")
	seed := flag.Uint64("seed", 0, "Random input seed (overrides soak.seed).")
	hold := flag.Int("hold", 0, "Frames each random key combination is held (overrides soak.hold).")
	script := flag.String("script", "", `Replay a looping key script such as "w*30,w+d*30,*10" instead of random input.`)
	relative := flag.Bool("relative", false, "Move relative to the camera.")
	realtime := flag.Bool("realtime", false, "Run frames on a wall-clock ticker instead of back to back.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	overrideDuration(&cfg.Soak.Duration, *duration)
	overrideDuration(&cfg.Soak.Interval, *interval)
	if *seed != 0 {
		cfg.Soak.Seed = *seed
	}
	if *hold != 0 {
		cfg.Soak.Hold = *hold
	}
	if *relative {
		cfg.Movement.Relative = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	report, err := run(context.Background(), cfg, *script, *realtime, logger)
	if err != nil {
		logger.Fatal("soak failed", zap.Error(err))
	}

	fmt.Println("\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")

	if !report.Passed() {
		logger.Error("invariant violations", zap.Int64("violations", report.Checks.Violations))
		logger.Sync()
		os.Exit(1)
	}
}

func overrideDuration(dst *time.Duration, flagValue time.Duration) {
	if flagValue > 0 {
		*dst = flagValue
	}
}

// run builds the scene and steps it until the configured duration has
// elapsed.
func run(ctx context.Context, cfg config.Config, script string, realtime bool, logger *zap.Logger) (*Report, error) {
	var source input.Source = input.NewRandom(cfg.Soak.Seed, cfg.Soak.Hold)
	sourceName := "random"
	if script != "" {
		s, err := input.ParseScript(script, true)
		if err != nil {
			return nil, err
		}
		source = s
		sourceName = fmt.Sprintf("script %q (%d frames)", script, s.Len())
	}

	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	s := scene.Setup(storage, assets.NewServer(cfg.Scene.AssetRoot, logger.Named("assets")), cfg.Scene.Config)
	if err := scene.Validate(storage, cfg.Movement.Relative); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	input.Install(storage)
	ecs.NewSingleton(storage, movement.Settings{Speed: cfg.Movement.Speed, Relative: cfg.Movement.Relative})
	results := ecs.NewSingleton[CheckResults](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&input.PollSystem{Source: source})
	scheduler.Register(&movement.System{})
	scheduler.Register(&InvariantSystem{})
	scheduler.Register(&spatial.PropagateSystem{})
	if err := scheduler.Validate(); err != nil {
		return nil, fmt.Errorf("systems: %w", err)
	}

	report := &Report{
		Duration: cfg.Soak.Duration,
		Interval: cfg.Soak.Interval,
		Seed:     cfg.Soak.Seed,
		Hold:     cfg.Soak.Hold,
		Source:   sourceName,
		Relative: cfg.Movement.Relative,
		Speed:    cfg.Movement.Speed,
		Realtime: realtime,
		Start:    ecs.ReadComponent[spatial.Transform](storage, s.Player).Translation,
	}

	runtime.ReadMemStats(&report.MemStatsStart)
	logger.Info("running soak",
		zap.Duration("duration", cfg.Soak.Duration),
		zap.String("input", sourceName),
		zap.Bool("realtime", realtime),
	)

	ctx, cancel := context.WithTimeout(ctx, cfg.Soak.Duration)
	defer cancel()

	startTime := time.Now()
	if realtime {
		scheduler.Run(ctx, cfg.Soak.Interval)
	} else {
		dt := cfg.Soak.Interval.Seconds()
	Loop:
		for {
			select {
			case <-ctx.Done():
				break Loop
			default:
				scheduler.Once(dt)
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Checks = *results.Get()
	report.End = ecs.ReadComponent[spatial.Transform](storage, s.Player).Translation
	report.Scheduler = scheduler.GetStats()

	logger.Info("soak finished",
		zap.Int64("frames", report.Checks.Frames),
		zap.Int64("violations", report.Checks.Violations),
	)
	return report, nil
}

// Command headless plays bot matches without a window, for soak testing and profiling.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"punchball/bots"
	"punchball/config"
	"punchball/profile"
	"punchball/session"
	"punchball/sim"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the exit code so deferred cleanup, such as flushing the
// CPU profile, runs before the process exits
func realMain(args []string) int {
	fs := flag.NewFlagSet("headless", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (default ./punchball.yaml if present)")
	frames := fs.Int("frames", 60*60*5, "frames to simulate")
	dt := fs.Duration("dt", time.Second/60, "simulated time per frame")
	count := fs.Int("bots", sim.MaxPlayers, "number of bots")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "bot decision seed")
	cpuProfile := fs.String("cpuprofile", "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Print(err)
		return 1
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		log.Print(err)
		return 1
	}
	slog.SetDefault(logger)

	if *cpuProfile != "" {
		stop, err := profile.StartCPU(*cpuProfile)
		if err != nil {
			logger.Error("cpu profile", slog.Any("error", err))
			return 1
		}
		defer func() {
			if err := stop(); err != nil {
				logger.Error("cpu profile", slog.Any("error", err))
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, logger, *frames, *dt, *count, *seed); err != nil {
		logger.Error("headless run failed", slog.Any("error", err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, frames int, dt time.Duration, count int, seed uint64) error {
	world, err := sim.NewWorld(cfg.Tuning, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	b, err := bots.New(world, count, seed, logger)
	if err != nil {
		return err
	}
	s := session.New(world, b, nil, logger)

	logger.Info("headless match",
		slog.Int("bots", count),
		slog.Uint64("seed", seed),
		slog.Int("frames", frames),
		slog.Duration("dt", dt),
	)

	var punches, hits, deaths, wins int
	start := time.Now()
	for i := 0; i < frames; i++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", slog.Int("frame", i))
			break
		}
		report, err := s.Advance(dt)
		if err != nil {
			return err
		}
		punches += len(report.Punches)
		hits += len(report.Hits)
		deaths += len(report.Deaths)
		if report.Win != nil {
			wins++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("frames %d in %v (%.0f frames/s), rounds %d\n",
		world.Frame(), elapsed.Round(time.Millisecond), float64(world.Frame())/elapsed.Seconds(), s.Rounds())
	fmt.Printf("punches %d  hits %d  deaths %d  wins %d\n", punches, hits, deaths, wins)
	for _, pts := range world.Points() {
		fmt.Printf("  %v  %2d  %s\n", pts.PlayerID, pts.Value, b.State(pts.PlayerID))
	}
	return nil
}

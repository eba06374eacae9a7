// Package profile captures CPU profiles and execution traces, either on demand
// or when the frame rate drops.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrBusy is returned when a capture is already running
	ErrBusy = errors.New("capture already running")
	// ErrCooldown is returned when the last capture started too recently
	ErrCooldown = errors.New("capture on cooldown")
)

// Profiler writes paired <name>.cpu.prof and <name>.trace files into a directory
type Profiler struct {
	dir      string
	duration time.Duration
	cooldown time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	last    time.Time
	wg      sync.WaitGroup
}

// New creates dir if needed
func New(dir string, duration, cooldown time.Duration, logger *slog.Logger) (*Profiler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("profile dir: %w", err)
	}
	return &Profiler{
		dir:      dir,
		duration: duration,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Capture starts a background capture and returns immediately
func (p *Profiler) Capture(reason string) error {
	name, err := p.begin(reason)
	if err != nil {
		return err
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.end()
		if err := p.capture(context.Background(), name); err != nil {
			p.logger.Error("profile capture failed", slog.String("name", name), slog.Any("error", err))
		}
	}()
	return nil
}

// CaptureSync captures until the configured duration passes or ctx is done
func (p *Profiler) CaptureSync(ctx context.Context, reason string) error {
	name, err := p.begin(reason)
	if err != nil {
		return err
	}
	defer p.end()
	return p.capture(ctx, name)
}

// Wait blocks until background captures finish
func (p *Profiler) Wait() {
	p.wg.Wait()
}

// Running reports whether a capture is in progress
func (p *Profiler) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Profiler) begin(reason string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return "", ErrBusy
	}
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < p.cooldown {
		return "", fmt.Errorf("%w: last capture %v ago", ErrCooldown, now.Sub(p.last))
	}
	p.running = true
	p.last = now
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), reason), nil
}

func (p *Profiler) end() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

func (p *Profiler) capture(ctx context.Context, name string) error {
	cpuPath := filepath.Join(p.dir, name+".cpu.prof")
	tracePath := filepath.Join(p.dir, name+".trace")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return record(ctx, cpuPath, p.duration, pprof.StartCPUProfile, pprof.StopCPUProfile)
	})
	eg.Go(func() error {
		return record(ctx, tracePath, p.duration, trace.Start, trace.Stop)
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.logger.Info("profile captured",
		slog.String("cpu", cpuPath),
		slog.String("trace", tracePath),
		slog.Uint64("heap_alloc_kb", m.HeapAlloc/1024),
		slog.Uint64("num_gc", uint64(m.NumGC)),
	)
	return nil
}

// record runs start/stop around a sleep of d, cut short by ctx
func record(ctx context.Context, path string, d time.Duration, start func(w io.Writer) error, stop func()) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := start(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("start %s: %w", filepath.Base(path), err)
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	stop()
	return nil
}

// StartCPU profiles the whole process into path until the returned stop is called
func StartCPU(path string) (stop func() error, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start cpu profile: %w", err)
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}

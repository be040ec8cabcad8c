package binaural

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/tphakala/go-binaural/internal/pipeline"
)

// Scheduler errors.
var (
	// ErrInvalidConfig indicates an unusable scheduler configuration.
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSchedulerClosed is returned when submitting to a closed Scheduler.
	ErrSchedulerClosed = pipeline.ErrClosed
)

// Frame is one rendered buffer handed to a Sink.
type Frame struct {
	// Step is the index of the request: the path step in RunPath, or a
	// running counter for Submit and PlayOnce.
	Step int

	Position Position
	Buffer   *StereoBuffer
}

// Sink receives rendered frames, typically for playback. Frames may arrive
// concurrently and out of order; serializing overlapping audio is the
// sink's job.
type Sink interface {
	Play(ctx context.Context, f Frame) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, f Frame) error

// Play calls fn(ctx, f).
func (fn SinkFunc) Play(ctx context.Context, f Frame) error {
	return fn(ctx, f)
}

// Discard is a Sink that drops every frame.
var Discard Sink = SinkFunc(func(context.Context, Frame) error { return nil })

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// Workers is the number of render goroutines. Zero uses runtime.NumCPU().
	Workers int

	// Interval is the pause between consecutive path steps in RunPath.
	// Zero dispatches steps back to back.
	Interval time.Duration

	// Logger receives dispatch and cancellation events. Nil discards them.
	Logger *slog.Logger
}

// Scheduler drives a Renderer from positions and forwards the results to a
// Sink. Every request is an independent job on a worker pool; the renderer
// keeps no state between them.
type Scheduler struct {
	renderer *Renderer
	sink     Sink
	pool     *pipeline.Pool
	interval time.Duration
	logger   *slog.Logger

	next atomic.Int64
}

// NewScheduler starts a Scheduler. Close must be called to stop its workers.
func NewScheduler(r *Renderer, sink Sink, config *SchedulerConfig) (*Scheduler, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: renderer is nil", ErrInvalidConfig)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: sink is nil", ErrInvalidConfig)
	}

	var cfg SchedulerConfig
	if config != nil {
		cfg = *config
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must be non-negative", ErrInvalidConfig)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("%w: interval must be non-negative", ErrInvalidConfig)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &Scheduler{
		renderer: r,
		sink:     sink,
		pool:     pipeline.NewPool(cfg.Workers),
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}, nil
}

// PlayOnce renders mono at pos and plays it on the calling goroutine.
// Concurrent calls are allowed and are not serialized.
func (s *Scheduler) PlayOnce(ctx context.Context, pos Position, mono []float64) error {
	step := int(s.next.Add(1) - 1)
	return s.play(ctx, step, pos, mono)
}

// Submit queues a single render-and-play request on the worker pool.
// Failures are reported by Close.
func (s *Scheduler) Submit(ctx context.Context, pos Position, mono []float64) error {
	if len(mono) == 0 {
		return ErrEmptySignal
	}
	step := int(s.next.Add(1) - 1)
	return s.dispatch(ctx, step, pos, mono)
}

// RunPath plays mono once per position in path, pausing Interval between
// steps. ctx is the stop signal: it is checked before each step starts, and
// a step that has been dispatched always runs to completion.
//
// RunPath returns the number of steps dispatched. When ctx is cancelled
// before the path finishes it also returns ctx.Err().
func (s *Scheduler) RunPath(ctx context.Context, path []Position, mono []float64) (int, error) {
	if len(mono) == 0 {
		return 0, ErrEmptySignal
	}

	for i, pos := range path {
		if i > 0 {
			if err := s.wait(ctx); err != nil {
				s.logger.Info("path stopped", slog.Int("step", i), slog.Int("steps", len(path)))
				return i, err
			}
		}

		if err := ctx.Err(); err != nil {
			s.logger.Info("path stopped", slog.Int("step", i), slog.Int("steps", len(path)))
			return i, err
		}

		s.logger.Debug("dispatching path step",
			slog.Int("step", i),
			slog.String("position", pos.String()))

		if err := s.dispatch(ctx, i, pos, mono); err != nil {
			return i, err
		}
	}

	return len(path), nil
}

// Close waits for all dispatched requests to finish and returns their
// failures joined.
func (s *Scheduler) Close() error {
	return s.pool.Close()
}

func (s *Scheduler) dispatch(ctx context.Context, step int, pos Position, mono []float64) error {
	return s.pool.Submit(ctx, step, func(ctx context.Context) error {
		// Once dispatched, a step finishes even if the caller stops.
		return s.play(context.WithoutCancel(ctx), step, pos, mono)
	})
}

func (s *Scheduler) play(ctx context.Context, step int, pos Position, mono []float64) error {
	buf, err := s.renderer.Render(pos, mono)
	if err != nil {
		return fmt.Errorf("render step %d at %s: %w", step, pos, err)
	}

	if err := s.sink.Play(ctx, Frame{Step: step, Position: pos, Buffer: buf}); err != nil {
		return fmt.Errorf("play step %d: %w", step, err)
	}

	return nil
}

func (s *Scheduler) wait(ctx context.Context) error {
	if s.interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

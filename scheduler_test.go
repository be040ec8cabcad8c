package binaural

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects every frame it receives.
type recordingSink struct {
	mu     sync.Mutex
	frames map[int]Frame
}

func newRecordingSink() *recordingSink {
	return &recordingSink{frames: make(map[int]Frame)}
}

func (s *recordingSink) Play(_ context.Context, f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[f.Step] = f
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func newTestScheduler(t *testing.T, sink Sink, cfg *SchedulerConfig) *Scheduler {
	t.Helper()
	s, err := NewScheduler(newTestRenderer(t), sink, cfg)
	require.NoError(t, err)
	return s
}

func TestNewScheduler_InvalidConfig(t *testing.T) {
	r := newTestRenderer(t)

	_, err := NewScheduler(nil, Discard, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewScheduler(r, nil, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewScheduler(r, Discard, &SchedulerConfig{Workers: -1})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewScheduler(r, Discard, &SchedulerConfig{Interval: -time.Second})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_PlayOnce(t *testing.T) {
	sink := newRecordingSink()
	s := newTestScheduler(t, sink, nil)
	mono := whiteNoise(256)
	pos := Position{X: -1, Y: 0.5}

	require.NoError(t, s.PlayOnce(context.Background(), pos, mono))
	require.NoError(t, s.Close())

	require.Equal(t, 1, sink.count())
	f := sink.frames[0]
	assert.Equal(t, pos, f.Position)

	want, err := s.renderer.Render(pos, mono)
	require.NoError(t, err)
	assert.Equal(t, want, f.Buffer)
}

func TestScheduler_PlayOnceRenderError(t *testing.T) {
	s := newTestScheduler(t, Discard, nil)
	defer s.Close()

	err := s.PlayOnce(context.Background(), Position{}, whiteNoise(16))
	require.ErrorIs(t, err, ErrDegenerateDistance)
}

func TestScheduler_RunPath(t *testing.T) {
	sink := newRecordingSink()
	s := newTestScheduler(t, sink, &SchedulerConfig{Workers: 4})
	path := DefaultCirclePath()
	mono := whiteNoise(512)

	steps, err := s.RunPath(context.Background(), path, mono)
	require.NoError(t, err)
	assert.Equal(t, len(path), steps)
	require.NoError(t, s.Close())

	require.Equal(t, len(path), sink.count())
	for i, pos := range path {
		f, ok := sink.frames[i]
		require.True(t, ok, "missing step %d", i)
		assert.Equal(t, pos, f.Position)
		assert.Equal(t, len(mono), f.Buffer.Len())
	}
}

func TestScheduler_RunPathCancelledBeforeStart(t *testing.T) {
	sink := newRecordingSink()
	s := newTestScheduler(t, sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps, err := s.RunPath(ctx, DefaultCirclePath(), whiteNoise(64))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, steps)
	require.NoError(t, s.Close())
	assert.Zero(t, sink.count())
}

// TestScheduler_RunPathStopsBetweenSteps cancels while the path is waiting
// for its next step. The dispatched step still plays in full.
func TestScheduler_RunPathStopsBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := newRecordingSink()
	cancelling := SinkFunc(func(ctx context.Context, f Frame) error {
		cancel()
		return sink.Play(ctx, f)
	})

	s := newTestScheduler(t, cancelling, &SchedulerConfig{Workers: 1, Interval: time.Hour})

	steps, err := s.RunPath(ctx, DefaultCirclePath(), whiteNoise(64))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, steps)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, sink.count())
}

func TestScheduler_DispatchedStepIgnoresCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	var sawCancel bool
	sink := SinkFunc(func(ctx context.Context, _ Frame) error {
		close(started)
		<-release
		sawCancel = ctx.Err() != nil
		return nil
	})

	s := newTestScheduler(t, sink, &SchedulerConfig{Workers: 1})
	require.NoError(t, s.Submit(ctx, Position{X: 1}, whiteNoise(32)))

	<-started
	cancel()
	close(release)

	require.NoError(t, s.Close())
	assert.False(t, sawCancel)
}

func TestScheduler_CloseReportsFailures(t *testing.T) {
	errSink := errors.New("device unavailable")
	sink := SinkFunc(func(_ context.Context, f Frame) error {
		if f.Step == 1 {
			return errSink
		}
		return nil
	})

	s := newTestScheduler(t, sink, &SchedulerConfig{Workers: 2})
	path := []Position{{X: 1}, {X: 2}, {}}

	steps, err := s.RunPath(context.Background(), path, whiteNoise(32))
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	err = s.Close()
	require.Error(t, err)
	require.ErrorIs(t, err, errSink)
	require.ErrorIs(t, err, ErrDegenerateDistance)
}

func TestScheduler_SubmitAfterClose(t *testing.T) {
	s := newTestScheduler(t, Discard, nil)
	require.NoError(t, s.Close())

	err := s.Submit(context.Background(), Position{X: 1}, whiteNoise(8))
	require.ErrorIs(t, err, ErrSchedulerClosed)

	// Close is idempotent.
	require.NoError(t, s.Close())
}

func TestScheduler_EmptySignal(t *testing.T) {
	s := newTestScheduler(t, Discard, nil)
	defer s.Close()

	require.ErrorIs(t, s.Submit(context.Background(), Position{X: 1}, nil), ErrEmptySignal)

	steps, err := s.RunPath(context.Background(), DefaultCirclePath(), nil)
	require.ErrorIs(t, err, ErrEmptySignal)
	assert.Zero(t, steps)
}

func TestScheduler_SubmitStepsAreUnique(t *testing.T) {
	sink := newRecordingSink()
	s := newTestScheduler(t, sink, &SchedulerConfig{Workers: 3})
	mono := whiteNoise(64)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos := Position{X: 1 + float64(i)}
			assert.NoError(t, s.Submit(context.Background(), pos, mono))
		}()
	}
	wg.Wait()

	require.NoError(t, s.Close())
	assert.Equal(t, 20, sink.count())
}

// Command binaural-wav renders a mono source at a 3-D position to a stereo
// WAV file.
//
// Usage:
//
//	binaural-wav -x 1 output.wav                      # 440 Hz tone on the right
//	binaural-wav -x -1 -y -1 -freq 220 output.wav     # behind and to the left
//	binaural-wav -in voice.wav -y 2 output.wav        # render a mono WAV file
//	binaural-wav -circle -step 0.2 output.wav         # one frame per step around the head
//
// In circle mode every step of the path is rendered on the worker pool and
// the frames are written back to back in step order.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"time"

	binaural "github.com/tphakala/go-binaural"
)

const (
	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	monoChannels   = 1
	stereoChannels = 2

	// WAVE_FORMAT_PCM
	wavFormatPCM = 1

	// CLI defaults
	defaultBitDepth = bitsPerSample16
	defaultLogLevel = "info"
	minRequiredArgs = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	params     binaural.Params
	position   binaural.Position
	frequency  float64
	amplitude  float64
	inputPath  string
	outputPath string
	bitDepth   int

	circle  bool
	radius  float64
	step    float64
	workers int
}

func run() error {
	defaults := binaural.DefaultParams()
	opts := options{params: defaults}

	flag.Float64Var(&opts.position.X, "x", 1, "Source X in meters (+X is the listener's right)")
	flag.Float64Var(&opts.position.Y, "y", 0, "Source Y in meters (+Y is in front)")
	flag.Float64Var(&opts.position.Z, "z", 0, "Source Z in meters")
	flag.Float64Var(&opts.frequency, "freq", binaural.DefaultToneFrequency, "Tone frequency in Hz")
	flag.Float64Var(&opts.amplitude, "amp", binaural.DefaultToneAmplitude, "Tone amplitude in [0, 1]")
	flag.StringVar(&opts.inputPath, "in", "", "Mono WAV input (default: generate a tone)")
	flag.IntVar(&opts.bitDepth, "bits", defaultBitDepth, "Output bit depth: 16, 24 or 32")

	flag.Float64Var(&opts.params.SampleRate, "rate", defaults.SampleRate, "Sample rate in Hz for generated tones")
	flag.Float64Var(&opts.params.Duration, "duration", defaults.Duration, "Tone duration in seconds")
	flag.Float64Var(&opts.params.HeadWidth, "head-width", defaults.HeadWidth, "Ear-to-ear distance in meters")
	flag.Float64Var(&opts.params.SoundSpeed, "sound-speed", defaults.SoundSpeed, "Speed of sound in m/s")
	flag.Float64Var(&opts.params.ITDAmplification, "itd-gain", defaults.ITDAmplification, "ITD amplification factor")
	flag.Float64Var(&opts.params.NearFieldThreshold, "near-field", defaults.NearFieldThreshold, "Near-field distance in meters")
	flag.Float64Var(&opts.params.FrontCutoff, "front-cutoff", defaults.FrontCutoff, "Front lowpass cutoff (fraction of Nyquist)")
	flag.Float64Var(&opts.params.BackCutoff, "back-cutoff", defaults.BackCutoff, "Back highpass cutoff (fraction of Nyquist)")

	flag.BoolVar(&opts.circle, "circle", false, "Render a full circle around the listener")
	flag.Float64Var(&opts.radius, "radius", binaural.DefaultCircleRadius, "Circle radius in meters")
	flag.Float64Var(&opts.step, "step", binaural.DefaultCircleStep, "Circle step in radians")
	flag.IntVar(&opts.workers, "workers", 0, "Render workers in circle mode (0 = NumCPU)")

	logLevel := flag.String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -x 1 right.wav                  # Tone on the right\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -y -2 -in voice.wav behind.wav  # Mono file behind the listener\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -circle orbit.wav               # Tone circling the head\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}
	opts.outputPath = args[0]

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, err := render(ctx, &opts, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Rendered %s\n", filepath.Base(opts.outputPath))
	fmt.Printf("  %d frames, %d samples per channel at %.0f Hz (%d-bit)\n",
		stats.frames, stats.samples, stats.sampleRate, opts.bitDepth)
	fmt.Printf("  Peak: %.4f, Duration: %.2fs\n", stats.peak, elapsed.Seconds())

	return nil
}

type renderStats struct {
	frames     int
	samples    int
	sampleRate float64
	peak       float64
}

func render(ctx context.Context, opts *options, logger *slog.Logger) (*renderStats, error) {
	mono, err := loadSource(opts, logger)
	if err != nil {
		return nil, err
	}

	r, err := binaural.New(&opts.params)
	if err != nil {
		return nil, err
	}

	var frames []*binaural.StereoBuffer
	if opts.circle {
		frames, err = renderCircle(ctx, r, opts, mono, logger)
	} else {
		var buf *binaural.StereoBuffer
		buf, err = renderFixed(r, opts.position, mono, logger)
		frames = []*binaural.StereoBuffer{buf}
	}
	if err != nil {
		return nil, err
	}

	out := concatFrames(frames)
	if err := writeStereoWAV(opts.outputPath, out, int(opts.params.SampleRate), opts.bitDepth); err != nil {
		return nil, err
	}

	return &renderStats{
		frames:     len(frames),
		samples:    out.Len(),
		sampleRate: opts.params.SampleRate,
		peak:       out.Peak(),
	}, nil
}

// loadSource returns the mono input, either read from -in or generated.
// A WAV input overrides the sample rate.
func loadSource(opts *options, logger *slog.Logger) ([]float64, error) {
	if opts.inputPath == "" {
		logger.Debug("generating tone",
			slog.Float64("frequency", opts.frequency),
			slog.Float64("amplitude", opts.amplitude),
			slog.Int("samples", opts.params.Samples()))
		return binaural.ToneSignal(&opts.params, opts.frequency, opts.amplitude)
	}

	input, err := readMonoWAV(opts.inputPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded input",
		slog.String("path", opts.inputPath),
		slog.Int("rate", input.rate),
		slog.Int("channels", input.channels),
		slog.Int("bits", input.bitDepth),
		slog.Int("samples", len(input.samples)))

	opts.params.SampleRate = float64(input.rate)
	return input.samples, nil
}

func renderFixed(r *binaural.Renderer, pos binaural.Position, mono []float64, logger *slog.Logger) (*binaural.StereoBuffer, error) {
	cues, err := r.Cues(pos)
	if err != nil {
		return nil, err
	}
	logCues(logger, pos, cues)

	return r.Render(pos, mono)
}

// renderCircle renders one frame per circle step through a Scheduler and
// returns them in step order.
func renderCircle(ctx context.Context, r *binaural.Renderer, opts *options, mono []float64, logger *slog.Logger) ([]*binaural.StereoBuffer, error) {
	path := binaural.CirclePath(opts.radius, opts.step)
	if len(path) == 0 {
		return nil, fmt.Errorf("empty circle path: radius %g, step %g", opts.radius, opts.step)
	}

	collector := newFrameCollector(len(path))
	s, err := binaural.NewScheduler(r, collector, &binaural.SchedulerConfig{
		Workers: opts.workers,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	steps, runErr := s.RunPath(ctx, path, mono)
	if err := s.Close(); err != nil {
		return nil, err
	}
	if runErr != nil {
		logger.Warn("circle interrupted", slog.Int("steps", steps), slog.Int("of", len(path)))
	}

	return collector.ordered(steps)
}

func logCues(logger *slog.Logger, pos binaural.Position, c binaural.Cues) {
	logger.Info("spatial cues",
		slog.String("position", pos.String()),
		slog.Float64("distance", c.Distance),
		slog.String("hemisphere", c.Hemisphere.String()),
		slog.Bool("near_field", c.NearField),
		slog.Float64("left_gain", c.LeftGain),
		slog.Float64("right_gain", c.RightGain),
		slog.Int("itd_samples", c.ITDSamples))
}

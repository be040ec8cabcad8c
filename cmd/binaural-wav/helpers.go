package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	binaural "github.com/tphakala/go-binaural"
)

// resolveLogLevel maps a -log-level flag value to a slog level.
func resolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	logLevel, err := resolveLogLevel(level)
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler), nil
}

// monoInput holds a decoded WAV file folded down to one channel.
type monoInput struct {
	samples  []float64
	rate     int
	channels int
	bitDepth int
}

// readMonoWAV decodes a WAV file and averages its channels into a single
// normalized channel.
func readMonoWAV(path string) (*monoInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	channels := buf.Format.NumChannels
	bitDepth := int(decoder.BitDepth)
	samples := downmix(buf.Data, channels, 1/getMaxValue(bitDepth))
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio data in %s", path)
	}

	return &monoInput{
		samples:  samples,
		rate:     buf.Format.SampleRate,
		channels: channels,
		bitDepth: bitDepth,
	}, nil
}

// downmix averages interleaved int samples into one channel scaled by
// invMaxVal.
func downmix(data []int, channels int, invMaxVal float64) []float64 {
	channels = max(channels, monoChannels)
	n := len(data) / channels
	out := make([]float64, n)

	// Fast path for mono
	if channels == monoChannels {
		for i := range n {
			out[i] = float64(data[i]) * invMaxVal
		}
		return out
	}

	scale := invMaxVal / float64(channels)
	for i := range n {
		base := i * channels
		var sum int
		for ch := range channels {
			sum += data[base+ch]
		}
		out[i] = float64(sum) * scale
	}
	return out
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// interleavePCM converts a stereo buffer to interleaved int samples,
// clamping to [-1.0, 1.0].
func interleavePCM(buf *binaural.StereoBuffer, maxVal float64) []int {
	n := buf.Len()
	dst := make([]int, n*stereoChannels)
	for i := range n {
		idx := i * stereoChannels
		dst[idx] = int(clamp(buf.Left[i]) * maxVal)
		dst[idx+1] = int(clamp(buf.Right[i]) * maxVal)
	}
	return dst
}

func clamp(sample float64) float64 {
	return min(max(sample, -1.0), 1.0)
}

// writeStereoWAV encodes buf as a 2-channel PCM WAV file.
func writeStereoWAV(path string, buf *binaural.StereoBuffer, sampleRate, bitDepth int) (err error) {
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		return fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, stereoChannels, wavFormatPCM)
	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: stereoChannels,
			SampleRate:  sampleRate,
		},
		Data:           interleavePCM(buf, getMaxValue(bitDepth)),
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(intBuf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	// Close rewrites the header sizes, so its error matters.
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return nil
}

// frameCollector is a Sink that keeps every frame so they can be written in
// step order once all workers are done.
type frameCollector struct {
	mu     sync.Mutex
	frames map[int]*binaural.StereoBuffer
}

func newFrameCollector(capacity int) *frameCollector {
	return &frameCollector{frames: make(map[int]*binaural.StereoBuffer, capacity)}
}

func (c *frameCollector) Play(_ context.Context, f binaural.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[f.Step] = f.Buffer
	return nil
}

// ordered returns frames 0..steps-1. A missing frame is an error.
func (c *frameCollector) ordered(steps int) ([]*binaural.StereoBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*binaural.StereoBuffer, steps)
	for i := range steps {
		buf, ok := c.frames[i]
		if !ok {
			return nil, fmt.Errorf("missing frame for step %d", i)
		}
		out[i] = buf
	}
	return out, nil
}

// concatFrames joins frames end to end into one buffer.
func concatFrames(frames []*binaural.StereoBuffer) *binaural.StereoBuffer {
	var total int
	for _, f := range frames {
		total += f.Len()
	}

	out := binaural.NewStereoBuffer(total)
	var offset int
	for _, f := range frames {
		copy(out.Left[offset:], f.Left)
		copy(out.Right[offset:], f.Right)
		offset += f.Len()
	}
	return out
}

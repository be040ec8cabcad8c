// Package binaural renders a mono signal as a two-channel (binaural) signal
// so that a listener perceives it as coming from a point in 3D space.
//
// The listener sits at the origin facing +Y, with +X to the right and +Z up.
// For each render the source position is fixed and produces four cues:
//
//   - Distance attenuation: inverse-square gain 1/d².
//   - Interaural level difference (ILD): the gain is split between the ears
//     by the cosine of the azimuth atan2(y, x). Sources behind the listener
//     use a wider swing than sources in front.
//   - Interaural time difference (ITD): headWidth·sin(azimuth)/soundSpeed,
//     amplified (10x by default) and rounded to whole samples.
//   - Front/back shaping: a second-order Butterworth lowpass for the front
//     hemisphere (y >= 0) and a highpass for the back.
//
// Inside the near-field radius (0.5 m by default) both ears get half the
// distance gain regardless of direction.
//
// These cues are deliberately exaggerated for audibility rather than
// physically measured; there are no HRTF measurements, elevation cues,
// reverberation or Doppler.
//
// # Quick Start
//
// For one-shot rendering of the default 440 Hz tone:
//
//	params := binaural.DefaultParams()
//	out, err := binaural.RenderTone(binaural.Position{X: -1, Y: 1}, &params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For repeated rendering, build a Renderer once. Filter design happens in
// New, so invalid cutoffs fail there:
//
//	r, err := binaural.New(&params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := r.Render(pos, mono)
//
// # Buffer Semantics
//
// The output always has len(mono) samples per channel. The ITD is applied
// by writing the delayed channel forward. A sample whose delayed copy would
// land past the end is dropped from both channels, never wrapped or
// appended, so an ITD of s samples leaves s silent samples at the start of
// the delayed channel and at the end of the other one.
//
// # Continuous Playback
//
// A [Scheduler] feeds positions to a [Renderer] on a worker pool and passes
// each result to a [Sink]. [Scheduler.RunPath] walks a path such as
// [CirclePath], checking its context between steps:
//
//	s, err := binaural.NewScheduler(r, sink, &binaural.SchedulerConfig{
//	    Interval: time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	steps, err := s.RunPath(ctx, binaural.DefaultCirclePath(), mono)
//	closeErr := s.Close()
//
// # Thread Safety
//
// A [Renderer] is safe for concurrent use. Filter coefficients are
// read-only and every Render call allocates its own filter state and
// output buffer, so concurrent renders share no mutable state.
package binaural

package main

import (
	"fmt"
	"io"

	binaural "github.com/tphakala/go-binaural"
)

// cueRow is one line of the cue table.
type cueRow struct {
	angleDeg float64
	position binaural.Position
	cues     binaural.Cues
}

// responseRow is the magnitude of both filters at one frequency.
type responseRow struct {
	freqHz  float64
	frontDB float64
	backDB  float64
}

// cueTable computes the cues at every step of a circle around the listener.
func cueTable(r *binaural.Renderer, radius, step float64) ([]cueRow, error) {
	path := binaural.CirclePath(radius, step)
	if len(path) == 0 {
		return nil, fmt.Errorf("empty path: radius %g, step %g", radius, step)
	}

	rows := make([]cueRow, len(path))
	for i, pos := range path {
		c, err := r.Cues(pos)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		rows[i] = cueRow{
			angleDeg: float64(i) * step * radToDeg,
			position: pos,
			cues:     c,
		}
	}
	return rows, nil
}

// responseTable evaluates both hemisphere filters at freqs below Nyquist.
func responseTable(r *binaural.Renderer, freqs []float64) []responseRow {
	nyquist := r.Params().SampleRate / 2
	front := r.Filter(binaural.Front)
	back := r.Filter(binaural.Back)

	var rows []responseRow
	for _, f := range freqs {
		if f >= nyquist {
			continue
		}
		wn := f / nyquist
		rows = append(rows, responseRow{
			freqHz:  f,
			frontDB: front.MagnitudeDB(wn),
			backDB:  back.MagnitudeDB(wn),
		})
	}
	return rows
}

// writeReport prints the cue table, the filter coefficients and responses,
// and the SIMD features in use.
func writeReport(w io.Writer, r *binaural.Renderer, radius, step float64) error {
	rows, err := cueTable(r, radius, step)
	if err != nil {
		return err
	}

	params := r.Params()
	fmt.Fprintln(w, "=== Spatial Cues ===")
	fmt.Fprintf(w, "Sample rate: %.0f Hz, head width: %.2f m, ITD amplification: %.0fx\n\n",
		params.SampleRate, params.HeadWidth, params.ITDAmplification)

	fmt.Fprintf(w, "%8s  %-24s  %-5s  %4s  %9s  %9s  %6s\n",
		"angle", "position", "hemi", "near", "left", "right", "itd")
	for _, row := range rows {
		c := row.cues
		fmt.Fprintf(w, "%7.1f°  %-24s  %-5s  %4t  %9.5f  %9.5f  %6d\n",
			row.angleDeg, row.position, c.Hemisphere, c.NearField,
			c.LeftGain, c.RightGain, c.ITDSamples)
	}

	fmt.Fprintln(w, "\n=== Hemisphere Filters ===")
	for _, h := range []binaural.Hemisphere{binaural.Front, binaural.Back} {
		c := r.Filter(h)
		fmt.Fprintf(w, "%s: b=%.7f a=%.7f stable=%t\n", h, c.Numerator(), c.Denominator(), c.Stable())
	}

	fmt.Fprintf(w, "\n%10s  %10s  %10s\n", "freq (Hz)", "front dB", "back dB")
	for _, row := range responseTable(r, responseFrequencies) {
		fmt.Fprintf(w, "%10.0f  %10.2f  %10.2f\n", row.freqHz, row.frontDB, row.backDB)
	}

	_, err = fmt.Fprintf(w, "\nSIMD: %s\n", binaural.SIMDInfo())
	return err
}

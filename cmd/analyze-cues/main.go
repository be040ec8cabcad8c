// Command analyze-cues prints the spatial cues around a circle of source
// positions and the frequency response of both hemisphere filters.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	binaural "github.com/tphakala/go-binaural"
)

const (
	// Display parameters
	defaultRadius = 1.0
	defaultStep   = math.Pi / 8

	radToDeg = 180 / math.Pi
)

// Frequencies at which the filter responses are printed.
var responseFrequencies = []float64{100, 440, 1000, 2000, 4410, 8000, 12000, 17640, 20000}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	radius := flag.Float64("radius", defaultRadius, "Circle radius in meters")
	step := flag.Float64("step", defaultStep, "Angle between positions in radians")
	rate := flag.Float64("rate", binaural.DefaultSampleRate, "Sample rate in Hz")
	flag.Parse()

	params := binaural.DefaultParams()
	params.SampleRate = *rate

	r, err := binaural.New(&params)
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, r, *radius, *step)
}

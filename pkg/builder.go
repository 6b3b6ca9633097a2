package ggm

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BIN_WIDTH is the nominal charge bin width in ADC units.
const BIN_WIDTH = 3.0

// RoundUp rounds x to a multiple of n: upwards when n > 0, downwards when
// n < 0. A zero n leaves x unchanged.
func RoundUp(x float64, n float64) float64 {
	if n == 0 {
		return x
	}
	// dividing by a negative n flips the direction of Ceil
	return math.Ceil(x/n) * n
}

// Quartiles returns the 25th, 50th and 75th percentiles of sample.
func Quartiles(sample []float64) (q0 float64, q1 float64, q2 float64) {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	q0 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q1 = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	q2 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return q0, q1, q2
}

// BuildTrimmedHistogram bins sample over [Q0-2*IQR, Q2+2*IQR], with both
// edges pushed outwards onto multiples of binWidth.
func BuildTrimmedHistogram(name string, sample []float64, binWidth float64) (*Histogram, error) {
	if len(sample) == 0 {
		return nil, &EmptyRangeError{}
	}

	q0, _, q2 := Quartiles(sample)
	iqr := q2 - q0
	low := RoundUp(q0-2*iqr, -binWidth)
	up := RoundUp(q2+2*iqr, binWidth)

	bins := int(math.Round((up - low) / binWidth))
	if bins < 1 {
		return nil, &EmptyRangeError{Entries: len(sample), Low: low, Up: up}
	}

	return FillHistogram(name, sample, bins, low, low+float64(bins)*binWidth, 0)
}

// FillHistogram bins sample-shift into nbins bins over [low, up).
func FillHistogram(name string, sample []float64, nbins int, low float64, up float64, shift float64) (*Histogram, error) {
	hist, err := NewHistogram(name, nbins, low, up)
	if err != nil {
		var emptyRange *EmptyRangeError
		if errors.As(err, &emptyRange) {
			emptyRange.Entries = len(sample)
		}
		return nil, err
	}
	for _, x := range sample {
		hist.Fill(x - shift)
	}
	return hist, nil
}

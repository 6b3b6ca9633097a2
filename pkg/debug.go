package ggm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
)

const debugBins = 25

// PrintSampleHistogram draws an ASCII histogram of sample on w.
func PrintSampleHistogram(w io.Writer, sample []float64, bins int) error {
	if len(sample) == 0 {
		_, err := fmt.Fprintln(w, "(empty sample)")
		return err
	}
	hist := histogram.Hist(bins, sample)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

func printSampleHistogram(logger Logger, title string, sample []float64) {
	var buf bytes.Buffer
	if err := PrintSampleHistogram(&buf, sample, debugBins); err != nil {
		logger.Error(fmt.Sprintf("error drawing %s: %v", title, err))
		return
	}
	logger.Info(fmt.Sprintf("%s\n%s", title, buf.String()), "debug")
}

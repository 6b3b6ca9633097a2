package ggm

import (
	"errors"
	"math"
	"testing"

	"go-hep.org/x/hep/hbook"
)

func TestHistogramFillAndFindBin(t *testing.T) {
	h, err := NewHistogram("h", 4, 0, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, x := range []float64{-1, 0, 1.5, 3.999, 4, 10} {
		h.Fill(x)
	}

	if h.Underflow() != 1 {
		t.Errorf("underflow = %g, want 1", h.Underflow())
	}
	if h.Overflow() != 2 {
		t.Errorf("overflow = %g, want 2", h.Overflow())
	}
	want := []float64{1, 1, 0, 1}
	for bin, content := range want {
		if h.Content(bin) != content {
			t.Errorf("bin %d = %g, want %g", bin, h.Content(bin), content)
		}
	}
	if h.Entries() != 6 {
		t.Errorf("entries = %d, want 6", h.Entries())
	}
	if h.FindBin(-0.1) != -1 || h.FindBin(4) != 4 {
		t.Errorf("FindBin out of range: %d, %d", h.FindBin(-0.1), h.FindBin(4))
	}
}

func TestHistogramInvalidRange(t *testing.T) {
	var emptyRange *EmptyRangeError
	if _, err := NewHistogram("h", 0, 0, 1); !errors.As(err, &emptyRange) {
		t.Errorf("zero bins: got %v, want EmptyRangeError", err)
	}
	if _, err := NewHistogram("h", 3, 1, 1); !errors.As(err, &emptyRange) {
		t.Errorf("empty range: got %v, want EmptyRangeError", err)
	}
}

func TestHistogramMeanAndRMS(t *testing.T) {
	h, _ := NewHistogram("h", 10, 0, 10)
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		h.Fill(x)
	}
	h.Fill(20)

	if math.Abs(h.Mean()-5) > 1e-12 {
		t.Errorf("mean = %g, want 5", h.Mean())
	}
	if math.Abs(h.RMS()-2) > 1e-12 {
		t.Errorf("rms = %g, want 2", h.RMS())
	}
}

func TestHistogramMaximumBinFirstOnTies(t *testing.T) {
	h, _ := NewHistogram("h", 4, 0, 4)
	h.SetContent(1, 5)
	h.SetContent(3, 5)
	if h.MaximumBin() != 1 {
		t.Errorf("MaximumBin = %d, want 1", h.MaximumBin())
	}
}

func TestHistogramScaleAndIntegral(t *testing.T) {
	h, _ := NewHistogram("h", 3, 0, 3)
	h.Fill(0.5)
	h.Fill(1.5)
	h.Fill(1.5)
	h.Fill(5)
	h.Scale(0.5)

	if got := h.Integral(0, 2); got != 1.5 {
		t.Errorf("integral = %g, want 1.5", got)
	}
	if got := h.Integral(-5, 50); got != 1.5 {
		t.Errorf("clipped integral = %g, want 1.5", got)
	}
	if h.Overflow() != 0.5 {
		t.Errorf("overflow = %g, want 0.5", h.Overflow())
	}
	if h.Entries() != 4 {
		t.Errorf("entries changed by Scale: %d", h.Entries())
	}
}

func TestHistogramSubtract(t *testing.T) {
	a, _ := NewHistogram("a", 2, 0, 2)
	b, _ := NewHistogram("b", 2, 0, 2)
	a.Fill(0.5)
	a.Fill(0.5)
	b.Fill(0.5)
	b.Fill(1.5)

	diff, err := a.Subtract(b, "diff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.Content(0) != 1 || diff.Content(1) != -1 {
		t.Errorf("diff = %v, want [1 -1]", diff.Contents())
	}
	if a.Content(0) != 2 || b.Content(1) != 1 {
		t.Errorf("inputs modified: %v %v", a.Contents(), b.Contents())
	}

	c, _ := NewHistogram("c", 3, 0, 2)
	if _, err := a.Subtract(c, "bad"); err == nil {
		t.Errorf("expected binning error")
	}
}

func TestHistogramMatchesH1D(t *testing.T) {
	sample := append(normalSample(100.5, 5, 5000), 0, 1000)
	h, err := NewHistogram("h", 13, 81, 120)
	if err != nil {
		t.Fatal(err)
	}
	reference := hbook.NewH1D(13, 81, 120)
	for _, x := range sample {
		h.Fill(x)
		reference.Fill(x, 1)
	}

	if h.Entries() != int(reference.Entries()) {
		t.Errorf("entries = %d, want %d", h.Entries(), reference.Entries())
	}
	if h.Underflow() != 1 || h.Overflow() != 1 {
		t.Errorf("underflow %g, overflow %g, want 1 and 1", h.Underflow(), h.Overflow())
	}
	for bin := 0; bin < h.NBins(); bin++ {
		if h.Content(bin) != reference.Value(bin) {
			t.Errorf("bin %d = %g, want %g", bin, h.Content(bin), reference.Value(bin))
		}
	}
	// the outliers pull the hbook RMS up, the in-range RMS ignores them
	if !(h.RMS() < reference.XRMS()) {
		t.Errorf("in-range RMS %g not below full RMS %g", h.RMS(), reference.XRMS())
	}
	if math.Abs(h.RMS()-5) > 0.5 {
		t.Errorf("rms = %g, want about 5", h.RMS())
	}

	diff, err := h.Subtract(h.Clone("copy"), "zero")
	if err != nil {
		t.Fatal(err)
	}
	if got := diff.Integral(0, diff.NBins()-1); got != 0 {
		t.Errorf("h - h integral = %g, want 0", got)
	}
	h.Scale(0.5)
	if h.Entries() != len(sample) {
		t.Errorf("entries after Scale = %d, want %d", h.Entries(), len(sample))
	}
}

func TestHistogramSetContentKeepsMoments(t *testing.T) {
	h, _ := NewHistogram("h", 4, 0, 4)
	h.SetContent(1, 2)
	h.SetContent(3, 2)
	if h.Mean() != 2.5 {
		t.Errorf("mean = %g, want 2.5", h.Mean())
	}
	if h.RMS() != 1 {
		t.Errorf("rms = %g, want 1", h.RMS())
	}
	h.SetContent(3, 0)
	if h.Mean() != 1.5 || h.RMS() != 0 {
		t.Errorf("mean %g, rms %g after clearing a bin, want 1.5 and 0", h.Mean(), h.RMS())
	}
}

func TestHistogramTooManyBins(t *testing.T) {
	var tooMany *TooManyBinsError
	if _, err := NewHistogram("h", MAX_BINS+1, 0, 1); !errors.As(err, &tooMany) {
		t.Errorf("got %v, want TooManyBinsError", err)
	}
}

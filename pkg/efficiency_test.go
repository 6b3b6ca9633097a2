package ggm

import (
	"errors"
	"math"
	"testing"
)

func TestAlignAndScale(t *testing.T) {
	pedestal, total := efficiencyScenario()

	alignment, err := AlignAndScale(1, pedestal, total, DefaultParameters())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alignment.Center != 100.5 {
		t.Errorf("center = %g, want 100.5", alignment.Center)
	}
	if !alignment.Pedestal.SameBinning(alignment.Total) {
		t.Fatalf("pedestal and total binned differently")
	}

	peak := alignment.Pedestal.MaximumBin()
	if c := alignment.Pedestal.BinCenter(peak); math.Abs(c) > 1e-9 {
		t.Errorf("aligned pedestal peak at %g, want 0", c)
	}
	if got, want := alignment.Total.Content(peak), alignment.Pedestal.Content(peak); math.Abs(got-want) > 1e-9 {
		t.Errorf("scaled total at the pedestal peak = %g, want %g", got, want)
	}
	if math.Abs(alignment.ScaleFactor-10000.0/18000.0) > 0.01 {
		t.Errorf("scale factor = %g, want ~%g", alignment.ScaleFactor, 10000.0/18000.0)
	}
}

func TestAlignAndScaleNoTotalAtPeak(t *testing.T) {
	pedestal := newTable("pedestal", nil, normalSample(100.5, 5, 5000))
	total := newTable("total_signal", nil, normalSample(400, 5, 5000))

	_, err := AlignAndScale(1, pedestal, total, DefaultParameters())
	var divideByZero *DivideByZeroError
	if !errors.As(err, &divideByZero) {
		t.Errorf("got %v, want DivideByZeroError", err)
	}
}

func TestExtractSignal(t *testing.T) {
	ped, _ := NewHistogram("ped", 4, -6, 6)
	tot, _ := NewHistogram("tot", 4, -6, 6)
	for bin, c := range []float64{1, 2, 3, 4} {
		ped.SetContent(bin, c)
	}
	for bin, c := range []float64{5, 5, 1, 10} {
		tot.SetContent(bin, c)
	}
	tot.SetUnderflow(3)
	ped.SetOverflow(2)

	diff, err := ExtractSignal(ped, tot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0, 0, 6}
	for bin, w := range want {
		if diff.Content(bin) != w {
			t.Errorf("bin %d = %g, want %g", bin, diff.Content(bin), w)
		}
	}
	if diff.Underflow() != 0 || diff.Overflow() != 0 {
		t.Errorf("underflow %g, overflow %g, want 0 and 0", diff.Underflow(), diff.Overflow())
	}
	if ped.Content(3) != 4 || tot.Content(3) != 10 {
		t.Errorf("inputs modified")
	}
	if !diff.SameBinning(ped) {
		t.Errorf("binning changed")
	}
}

func TestIntegrateEfficiencyZeroSignal(t *testing.T) {
	diff, _ := NewHistogram("diff", 10, -15, 15)
	total, _ := NewHistogram("tot", 10, -15, 15)
	for _, x := range normalSample(0, 3, 1000) {
		total.Fill(x)
	}

	efficiency, err := IntegrateEfficiency(diff, total, 0.7, &recordingLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if efficiency != 0 {
		t.Errorf("efficiency = %g, want 0", efficiency)
	}
}

func TestIntegrateEfficiencyDivideByZero(t *testing.T) {
	diff, _ := NewHistogram("diff", 10, -15, 15)
	empty, _ := NewHistogram("tot", 10, -15, 15)
	var divideByZero *DivideByZeroError

	if _, err := IntegrateEfficiency(diff, empty, 1, &recordingLogger{}); !errors.As(err, &divideByZero) {
		t.Errorf("empty total: got %v, want DivideByZeroError", err)
	}

	total, _ := NewHistogram("tot", 10, -15, 15)
	total.Fill(1)
	if _, err := IntegrateEfficiency(diff, total, 0, &recordingLogger{}); !errors.As(err, &divideByZero) {
		t.Errorf("zero scale: got %v, want DivideByZeroError", err)
	}
}

func TestIntegrateEfficiencyCountsOverflow(t *testing.T) {
	diff, _ := NewHistogram("diff", 4, -6, 6)
	diff.SetContent(2, 10)
	diff.SetContent(3, 20)
	diff.SetOverflow(30)
	total, _ := NewHistogram("tot", 4, -6, 6)
	for i := 0; i < 200; i++ {
		total.Fill(0)
	}

	efficiency, err := IntegrateEfficiency(diff, total, 0.5, &recordingLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (10 + 20 + 30) / (200 / 2) / 0.5
	if math.Abs(efficiency-1.2) > 1e-12 {
		t.Errorf("efficiency = %g, want 1.2 (no clipping)", efficiency)
	}
}

func TestAnalyzeChannelEfficiencyIdenticalTables(t *testing.T) {
	sample := normalSample(100.5, 5, 10000)
	pedestal := newTable("pedestal", nil, sample)
	total := newTable("total_signal", nil, sample)

	analysis, err := AnalyzeChannelEfficiency(1, pedestal, total, DefaultParameters(), &recordingLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Efficiency != 0 {
		t.Errorf("efficiency = %g, want 0", analysis.Efficiency)
	}
	if analysis.Alignment.ScaleFactor != 1 {
		t.Errorf("scale factor = %g, want 1", analysis.Alignment.ScaleFactor)
	}
}

func TestAnalyzeChannelEfficiencySeparatedCluster(t *testing.T) {
	pedestal, total := efficiencyScenario()
	logger := &recordingLogger{verbosity: 2}

	analysis, err := AnalyzeChannelEfficiency(7, pedestal, total, DefaultParameters(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(analysis.Efficiency-0.20) > 0.01 {
		t.Errorf("efficiency = %g, want 0.20 +- 0.01", analysis.Efficiency)
	}
	if !logger.infoContaining("Channel 7 efficiency is") {
		t.Errorf("efficiency not logged: %v", logger.infos)
	}
	if !logger.infoContaining("Real signal area") {
		t.Errorf("areas not logged at verbosity 2: %v", logger.infos)
	}
}

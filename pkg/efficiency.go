package ggm

import (
	"fmt"
	"math"
)

// Alignment holds the pedestal and total-signal histograms of one channel on
// a common binning, both shifted so that the pedestal peak sits at zero. Total
// has already been multiplied by ScaleFactor.
type Alignment struct {
	Pedestal    *Histogram
	Total       *Histogram
	ScaleFactor float64
	Center      float64
}

// ChannelAnalysis is everything the pipeline produced for one channel.
type ChannelAnalysis struct {
	Channel    Channel
	Alignment  *Alignment
	Difference *Histogram
	Efficiency float64
}

// AlignAndScale builds the pedestal and total-signal histograms of ch over
// the same range, centred on the pedestal peak, and rescales the total signal
// so that its content at the pedestal peak bin equals the pedestal's.
func AlignAndScale(ch Channel, pedestal *EventTable, total *EventTable, params Parameters) (*Alignment, error) {
	pedSample, err := pedestal.Sample(ch)
	if err != nil {
		return nil, err
	}
	totSample, err := total.Sample(ch)
	if err != nil {
		return nil, err
	}

	trimmed, err := BuildTrimmedHistogram(fmt.Sprintf("ch%d_ped_trimmed", ch), pedSample, params.BinWidth)
	if err != nil {
		return nil, err
	}
	center := trimmed.BinCenter(trimmed.MaximumBin())
	rms := trimmed.RMS()

	// a wide pedestal would push the upper edge too far out
	upperRMS := 15.0
	if rms > 20.0 {
		upperRMS = 7.0
	}
	lower := RoundUp(center-5*rms, -params.BinWidth)
	upper := RoundUp(center+upperRMS*rms, params.BinWidth)
	nbins := int(math.Round((upper - lower) / params.BinWidth))
	if nbins < 1 {
		return nil, &EmptyRangeError{Entries: len(pedSample), Low: lower, Up: upper}
	}
	low := lower - center
	up := low + float64(nbins)*params.BinWidth

	pedHist, err := FillHistogram(fmt.Sprintf("ch%d_ped", ch), pedSample, nbins, low, up, center)
	if err != nil {
		return nil, err
	}
	totHist, err := FillHistogram(fmt.Sprintf("ch%d_tot", ch), totSample, nbins, low, up, center)
	if err != nil {
		return nil, err
	}

	// scale is anchored on the pedestal peak, not on the total-signal peak
	peakBin := pedHist.MaximumBin()
	if totHist.Content(peakBin) == 0 {
		return nil, &DivideByZeroError{Quantity: fmt.Sprintf("total-signal content at pedestal peak bin %d", peakBin)}
	}
	scaleFactor := pedHist.Content(peakBin) / totHist.Content(peakBin)
	totHist.Scale(scaleFactor)

	return &Alignment{
		Pedestal:    pedHist,
		Total:       totHist,
		ScaleFactor: scaleFactor,
		Center:      center,
	}, nil
}

// ExtractSignal returns scaledTotal - pedestal with every negative bin and
// every bin whose lower edge is below zero set to zero. The inputs are left
// untouched.
func ExtractSignal(pedestal *Histogram, scaledTotal *Histogram) (*Histogram, error) {
	name := scaledTotal.Name + "_diff"
	diff, err := scaledTotal.Subtract(pedestal, name)
	if err != nil {
		return nil, err
	}

	for bin := 0; bin < diff.NBins(); bin++ {
		if diff.Content(bin) < 0 || diff.BinLowEdge(bin) < 0 {
			diff.SetContent(bin, 0)
		}
	}
	diff.SetUnderflow(0)
	if diff.Overflow() < 0 {
		diff.SetOverflow(0)
	}
	diff.syncTotals()
	return diff, nil
}

// TOTAL_ENTRIES_PER_EVENT is the number of rows the logger writes for each
// physical event of a channel in a total-signal file.
const TOTAL_ENTRIES_PER_EVENT = 2

// IntegrateEfficiency sums the real signal from the bin holding zero through
// the overflow, divides by the number of physical events and undoes the
// total-signal rescale. The result is not clipped to [0, 1].
func IntegrateEfficiency(diff *Histogram, scaledTotal *Histogram, scaleFactor float64, logger Logger) (float64, error) {
	fromBin := diff.FindBin(0)
	signalArea := diff.Integral(fromBin, diff.NBins()-1) + diff.Overflow()

	totalArea := float64(scaledTotal.Entries()) / TOTAL_ENTRIES_PER_EVENT
	if totalArea == 0 {
		return 0, &DivideByZeroError{Quantity: "total-signal area"}
	}
	if scaleFactor == 0 {
		return 0, &DivideByZeroError{Quantity: "scale factor"}
	}

	if logger.Verbosity() > 1 {
		message := fmt.Sprintf("Real signal area: %g, total signal area: %g, scale factor: %g", signalArea, totalArea, scaleFactor)
		logger.Info(message, "efficiency")
	}

	return signalArea / totalArea / scaleFactor, nil
}

// AnalyzeChannelEfficiency runs alignment, signal extraction and integration
// for one channel.
func AnalyzeChannelEfficiency(ch Channel, pedestal *EventTable, total *EventTable, params Parameters, logger Logger) (*ChannelAnalysis, error) {
	alignment, err := AlignAndScale(ch, pedestal, total, params)
	if err != nil {
		return nil, fmt.Errorf("error aligning channel %d: %w", ch, err)
	}

	diff, err := ExtractSignal(alignment.Pedestal, alignment.Total)
	if err != nil {
		return nil, fmt.Errorf("error extracting signal of channel %d: %w", ch, err)
	}

	efficiency, err := IntegrateEfficiency(diff, alignment.Total, alignment.ScaleFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("error integrating channel %d: %w", ch, err)
	}

	if logger.Verbosity() > 0 {
		logger.Info(fmt.Sprintf("Channel %d efficiency is %g", ch, efficiency), "efficiency")
	}

	return &ChannelAnalysis{
		Channel:    ch,
		Alignment:  alignment,
		Difference: diff,
		Efficiency: efficiency,
	}, nil
}

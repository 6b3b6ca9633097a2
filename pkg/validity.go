package ggm

import (
	"fmt"
)

// RMS_MIN is the smallest pedestal RMS, in ADC units, of a live channel.
const RMS_MIN = 3.0

// Parameters are the tunable constants of the efficiency pipeline.
type Parameters struct {
	BinWidth float64
	RMSMin   float64
}

func DefaultParameters() Parameters {
	return Parameters{BinWidth: BIN_WIDTH, RMSMin: RMS_MIN}
}

// CheckValidChannel reports whether ch carries a live pedestal. A channel is
// valid when the RMS of its trimmed pedestal histogram is strictly above
// params.RMSMin. When it is not, the returned string says why.
func CheckValidChannel(ch Channel, pedestal *EventTable, params Parameters, logger Logger) (bool, string) {
	sample, err := pedestal.Sample(ch)
	if err != nil {
		return false, err.Error()
	}

	if logger.Verbosity() > 2 {
		printSampleHistogram(logger, fmt.Sprintf("%s raw pedestal", ch), sample)
	}

	hist, err := BuildTrimmedHistogram(fmt.Sprintf("ch%d_ped_trimmed", ch), sample, params.BinWidth)
	if err != nil {
		reason := fmt.Sprintf("no pedestal histogram for channel %d: %v", ch, err)
		if logger.Verbosity() > 0 {
			logger.Info(reason, "validity")
		}
		return false, reason
	}

	rms := hist.RMS()
	if logger.Verbosity() > 1 {
		message := fmt.Sprintf("Channel %d pedestal: %d entries, mean %g, RMS %g, %d bins in [%g, %g)",
			ch, hist.Entries(), hist.Mean(), rms, hist.NBins(), hist.Low(), hist.Up())
		logger.Info(message, "validity")
	}
	if rms > params.RMSMin {
		return true, ""
	}

	reason := fmt.Sprintf("pedestal RMS %g of channel %d is not above %g", rms, ch, params.RMSMin)
	if logger.Verbosity() > 0 {
		logger.Info(reason, "validity")
	}
	return false, reason
}

package ggm

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

// MINIMUM_ENTRIES is the default number of pedestal events a run needs.
const MINIMUM_ENTRIES = 5000

// RecordWriter persists the result of one channel.
type RecordWriter interface {
	Append(record DSTRecord) error
}

// Analysis runs the efficiency pipeline over every channel of one run.
type Analysis struct {
	// RunID tags the final log line of Run.
	RunID          string
	Parameters     Parameters
	Excluded       []Channel
	MinimumEntries int
	Logger         Logger
	Records        RecordWriter
	// Voltages may be nil, in which case every record carries 0 V.
	Voltages VoltageSource
	Sinks    []HistogramSink
	Now      func() time.Time
}

func (a *Analysis) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// RunFiles loads both raw files and runs the analysis. A file that cannot be
// read aborts the run before any channel is processed.
func (a *Analysis) RunFiles(pedestalFile string, totalSignalFile string) ([]ChannelResult, error) {
	pedestal, err := ReadEventTable(pedestalFile, "pedestal")
	if err != nil {
		return nil, err
	}
	total, err := ReadEventTable(totalSignalFile, "total_signal")
	if err != nil {
		return nil, err
	}
	if a.Logger.Verbosity() > 0 {
		message := fmt.Sprintf("Read %d pedestal and %d total signal events", pedestal.Entries(), total.Entries())
		a.Logger.Info(message, "driver")
	}
	return a.Run(pedestal, total)
}

// Run processes channels 1..AVAILABLE_CHANNELS in order and appends one
// record per channel. A failing channel is recorded with zero efficiency and
// never stops the run; the returned error only reports records that could not
// be written, or a pedestal table too small to analyse.
func (a *Analysis) Run(pedestal *EventTable, total *EventTable) ([]ChannelResult, error) {
	start := time.Now()

	if a.MinimumEntries > 0 {
		minimum := float64(a.MinimumEntries) * 0.99
		if float64(pedestal.Entries()) < minimum {
			return nil, &InsufficientEntriesError{Filename: pedestal.Name, Entries: pedestal.Entries(), Minimum: minimum}
		}
	}

	results := make([]ChannelResult, 0, AVAILABLE_CHANNELS)
	var errs []error
	for _, ch := range Channels() {
		result := a.analyzeChannel(ch, pedestal, total)
		results = append(results, result)

		if err := a.persist(result); err != nil {
			a.Logger.Error(fmt.Sprintf("error saving channel %d: %v", ch, err))
			errs = append(errs, err)
		}
	}

	duration := time.Since(start)
	message := fmt.Sprintf("Total time: %d ms", duration.Milliseconds())
	if a.RunID != "" {
		message = fmt.Sprintf("%s, run %s", message, a.RunID)
	}
	a.Logger.Info(message, "driver")
	return results, errors.Join(errs...)
}

func (a *Analysis) analyzeChannel(ch Channel, pedestal *EventTable, total *EventTable) ChannelResult {
	if slices.Contains(a.Excluded, ch) {
		if a.Logger.Verbosity() > 0 {
			a.Logger.Info(fmt.Sprintf("Channel %d excluded in configuration file, skipped", ch), "driver")
		}
		return ChannelResult{Channel: ch, Status: StatusExcluded, Reason: "excluded in configuration"}
	}

	valid, reason := CheckValidChannel(ch, pedestal, a.Parameters, a.Logger)
	if !valid {
		if a.Logger.Verbosity() > 0 {
			a.Logger.Info(fmt.Sprintf("Channel %d not valid, skipped: %s", ch, reason), "driver")
		}
		return ChannelResult{Channel: ch, Status: StatusInvalid, Reason: reason}
	}

	if a.Logger.Verbosity() > 0 {
		a.Logger.Info(fmt.Sprintf("Channel %d analysis...", ch), "driver")
	}
	analysis, err := AnalyzeChannelEfficiency(ch, pedestal, total, a.Parameters, a.Logger)
	if err != nil {
		a.Logger.Error(fmt.Sprintf("channel %d failed, efficiency set to 0: %v", ch, err))
		return ChannelResult{Channel: ch, Status: StatusFailed, Reason: err.Error()}
	}

	for _, sink := range a.Sinks {
		if err := sink.WriteChannel(analysis); err != nil {
			a.Logger.Error(fmt.Sprintf("error writing histograms of channel %d: %v", ch, err))
		}
	}

	return ChannelResult{
		Channel:     ch,
		Efficiency:  analysis.Efficiency,
		Status:      StatusMeasured,
		ScaleFactor: analysis.Alignment.ScaleFactor,
	}
}

func (a *Analysis) persist(result ChannelResult) error {
	if a.Records == nil {
		return nil
	}

	voltage := 0.0
	if a.Voltages != nil {
		v, err := a.Voltages.BiasVoltage(result.Channel)
		if err != nil {
			if a.Logger.Verbosity() > 0 {
				a.Logger.Info(fmt.Sprintf("No bias voltage for channel %d, recording 0: %v", result.Channel, err), "driver")
			}
		} else {
			voltage = v
		}
	}

	record := DSTRecord{
		Timestamp:   a.now().Unix(),
		Channel:     int(result.Channel),
		Efficiency:  result.Efficiency,
		BiasVoltage: voltage,
	}
	return a.Records.Append(record)
}

package ggm

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

type recordingLogger struct {
	verbosity int
	infos     []string
	errors    []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.infos = append(l.infos, fmt.Sprintf("[%s] %s", module, message))
}

func (l *recordingLogger) Error(message string) {
	l.errors = append(l.errors, message)
}

func (l *recordingLogger) Verbosity() int {
	return l.verbosity
}

func (l *recordingLogger) infoContaining(substr string) bool {
	for _, message := range l.infos {
		if strings.Contains(message, substr) {
			return true
		}
	}
	return false
}

func (l *recordingLogger) errorContaining(substr string) bool {
	for _, message := range l.errors {
		if strings.Contains(message, substr) {
			return true
		}
	}
	return false
}

// normalSample returns n evenly spaced quantiles of N(mu, sigma), which
// behaves like a large random sample without the noise.
func normalSample(mu float64, sigma float64, n int) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	sample := make([]float64, n)
	for i := range sample {
		sample[i] = dist.Quantile((float64(i) + 0.5) / float64(n))
	}
	return sample
}

// newTable builds a table with one column per channel taken from samples.
// Channels missing from samples read def.
func newTable(name string, samples map[Channel][]float64, def []float64) *EventTable {
	events := make([]Event, len(def))
	for i := range events {
		events[i].EventID = uint32(i)
		events[i].Timestamp = float64(1700000000 + i)
		for _, ch := range Channels() {
			sample, ok := samples[ch]
			if !ok {
				sample = def
			}
			events[i].Charges[ch-1] = sample[i]
		}
	}
	return NewEventTable(name, events)
}

func concat(samples ...[]float64) []float64 {
	out := make([]float64, 0)
	for _, s := range samples {
		out = append(out, s...)
	}
	return out
}

// Pedestal around 100.5 ADC and a total signal where one physical event in
// five (two rows per event) carries a charge cluster 40 ADC above it.
func efficiencyScenario() (*EventTable, *EventTable) {
	pedestal := newTable("pedestal", nil, normalSample(100.5, 5, 10000))
	total := newTable("total_signal", nil, concat(normalSample(100.5, 5, 18000), normalSample(140.5, 2, 2000)))
	return pedestal, total
}

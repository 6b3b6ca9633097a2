package ggm

// ChannelStatus tells how a channel's efficiency was obtained.
type ChannelStatus int

const (
	StatusMeasured ChannelStatus = iota
	StatusExcluded
	StatusInvalid
	StatusFailed
)

func (s ChannelStatus) String() string {
	switch s {
	case StatusMeasured:
		return "measured"
	case StatusExcluded:
		return "excluded"
	case StatusInvalid:
		return "invalid"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChannelResult is the outcome of one channel in one run. Efficiency is zero
// for every status but StatusMeasured; Reason says why.
type ChannelResult struct {
	Channel     Channel
	Efficiency  float64
	Status      ChannelStatus
	ScaleFactor float64
	Reason      string
}

// Valid reports whether Efficiency is a measurement rather than a placeholder.
func (r ChannelResult) Valid() bool {
	return r.Status == StatusMeasured
}

// HistogramSink receives the histograms of every analysed channel, for
// example to render or store them.
type HistogramSink interface {
	WriteChannel(analysis *ChannelAnalysis) error
}

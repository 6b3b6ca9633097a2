package ggm

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
)

// MAX_BINS bounds the binning of a single histogram. A sample spread wider
// than MAX_BINS*binWidth is refused instead of allocated.
const MAX_BINS = 1000000

// Histogram is a named equal-width hbook.H1D over [low, up). Mean and RMS
// come from the in-range bin moments only, under/overflow excluded.
type Histogram struct {
	Name string
	h1d  *hbook.H1D
}

func NewHistogram(name string, nbins int, low float64, up float64) (*Histogram, error) {
	// hbook.NewH1D panics on these
	if nbins < 1 || !(up > low) {
		return nil, &EmptyRangeError{Low: low, Up: up}
	}
	if nbins > MAX_BINS {
		return nil, &TooManyBinsError{Bins: nbins, Low: low, Up: up}
	}
	h1d := hbook.NewH1D(nbins, low, up)
	h1d.Annotation()["name"] = name
	return &Histogram{Name: name, h1d: h1d}, nil
}

// H1D exposes the underlying go-hep histogram. It is shared, not copied.
func (h *Histogram) H1D() *hbook.H1D {
	return h.h1d
}

func (h *Histogram) NBins() int {
	return h.h1d.Len()
}

func (h *Histogram) Low() float64 {
	return h.h1d.XMin()
}

func (h *Histogram) Up() float64 {
	return h.h1d.XMax()
}

func (h *Histogram) Width() float64 {
	return (h.Up() - h.Low()) / float64(h.NBins())
}

func (h *Histogram) Entries() int {
	return int(h.h1d.Entries())
}

func (h *Histogram) Underflow() float64 {
	return h.h1d.Binning.Underflow().SumW()
}

func (h *Histogram) Overflow() float64 {
	return h.h1d.Binning.Overflow().SumW()
}

func (h *Histogram) SetUnderflow(value float64) {
	h.h1d.Binning.Outflows[0] = hbook.Dist1D{}
	h.h1d.Binning.Outflows[0].Dist.SumW = value
}

func (h *Histogram) SetOverflow(value float64) {
	h.h1d.Binning.Outflows[1] = hbook.Dist1D{}
	h.h1d.Binning.Outflows[1].Dist.SumW = value
}

func (h *Histogram) Content(bin int) float64 {
	return h.h1d.Value(bin)
}

// SetContent replaces the bin with value entries sitting at its center.
func (h *Histogram) SetContent(bin int, value float64) {
	b := &h.h1d.Binning.Bins[bin]
	x := b.XMid()
	b.Dist = hbook.Dist1D{}
	b.Dist.Dist.SumW = value
	b.Dist.Stats.SumWX = value * x
	b.Dist.Stats.SumWX2 = value * x * x
}

// Contents returns a copy of the in-range bin contents.
func (h *Histogram) Contents() []float64 {
	out := make([]float64, h.NBins())
	for bin := range out {
		out[bin] = h.h1d.Value(bin)
	}
	return out
}

func (h *Histogram) BinLowEdge(bin int) float64 {
	return h.h1d.Binning.Bins[bin].XMin()
}

func (h *Histogram) BinCenter(bin int) float64 {
	return h.h1d.Binning.Bins[bin].XMid()
}

// FindBin returns the bin holding x, -1 for underflow and NBins() for
// overflow.
func (h *Histogram) FindBin(x float64) int {
	switch {
	case x < h.Low():
		return -1
	case x >= h.Up():
		return h.NBins()
	}
	bin := hbook.Bin1Ds(h.h1d.Binning.Bins).IndexOf(x)
	// x just below up can miss the last bin through rounding of its edge
	if bin < 0 || bin >= h.NBins() {
		return h.NBins() - 1
	}
	return bin
}

func (h *Histogram) Fill(x float64) {
	h.h1d.Fill(x, 1)
}

// MaximumBin returns the first bin with the largest content.
func (h *Histogram) MaximumBin() int {
	maxBin := 0
	for bin := 1; bin < h.NBins(); bin++ {
		if h.h1d.Value(bin) > h.h1d.Value(maxBin) {
			maxBin = bin
		}
	}
	return maxBin
}

func (h *Histogram) moments() (sumW float64, sumWX float64, sumWX2 float64) {
	for i := range h.h1d.Binning.Bins {
		dist := &h.h1d.Binning.Bins[i].Dist
		sumW += dist.SumW()
		sumWX += dist.SumWX()
		sumWX2 += dist.SumWX2()
	}
	return sumW, sumWX, sumWX2
}

func (h *Histogram) Mean() float64 {
	sumW, sumWX, _ := h.moments()
	if sumW == 0 {
		return 0
	}
	return sumWX / sumW
}

func (h *Histogram) RMS() float64 {
	sumW, sumWX, sumWX2 := h.moments()
	if sumW == 0 {
		return 0
	}
	mean := sumWX / sumW
	variance := sumWX2/sumW - mean*mean
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// Integral sums the contents of bins first..last, both inclusive, clipped to
// the in-range bins.
func (h *Histogram) Integral(first int, last int) float64 {
	if first < 0 {
		first = 0
	}
	if last > h.NBins()-1 {
		last = h.NBins() - 1
	}
	total := 0.0
	for bin := first; bin <= last; bin++ {
		total += h.h1d.Value(bin)
	}
	return total
}

// Scale multiplies every bin, the under/overflow and the moments by factor.
// Entries are kept.
func (h *Histogram) Scale(factor float64) {
	h.h1d.Scale(factor)
}

func (h *Histogram) Clone(name string) *Histogram {
	h1d := h.h1d.Clone()
	h1d.Annotation()["name"] = name
	return &Histogram{Name: name, h1d: h1d}
}

func (h *Histogram) SameBinning(other *Histogram) bool {
	return h.NBins() == other.NBins() && h.Low() == other.Low() && h.Up() == other.Up()
}

// syncTotals recomputes the overall weight moments from the bins and the
// under/overflow after contents were set by hand. Entries are kept.
func (h *Histogram) syncTotals() {
	total := hbook.Dist1D{}
	total.Dist.N = h.h1d.Binning.Dist.Dist.N
	add := func(d *hbook.Dist1D) {
		total.Dist.SumW += d.Dist.SumW
		total.Dist.SumW2 += d.Dist.SumW2
		total.Stats.SumWX += d.Stats.SumWX
		total.Stats.SumWX2 += d.Stats.SumWX2
	}
	for i := range h.h1d.Binning.Bins {
		add(&h.h1d.Binning.Bins[i].Dist)
	}
	add(&h.h1d.Binning.Outflows[0])
	add(&h.h1d.Binning.Outflows[1])
	h.h1d.Binning.Dist = total
}

// Subtract returns h - other as a new histogram. Both must share binning.
// Entries of the result add up, as hbook.SubH1D does.
func (h *Histogram) Subtract(other *Histogram, name string) (*Histogram, error) {
	if !h.SameBinning(other) {
		return nil, fmt.Errorf("cannot subtract %q from %q: binning differs ([%g, %g)/%d vs [%g, %g)/%d)",
			other.Name, h.Name, other.Low(), other.Up(), other.NBins(), h.Low(), h.Up(), h.NBins())
	}
	diff := hbook.SubH1D(h.h1d, other.h1d)
	diff.Annotation()["name"] = name
	return &Histogram{Name: name, h1d: diff}, nil
}

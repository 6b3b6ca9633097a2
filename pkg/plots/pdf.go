package plots

import (
	"fmt"
	"image/color"
	"os"

	ggm "github.com/ggm-analysis/ggm_go/pkg"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

var (
	pedestalColor = color.RGBA{B: 255, A: 255}
	totalColor    = color.RGBA{R: 255, A: 255}
	signalColor   = color.RGBA{G: 160, A: 255}
)

// PDFBook collects one page per plotted item and writes them as a single
// multi-page PDF on Save.
type PDFBook struct {
	Filename string
	canvas   *vgpdf.Canvas
	pages    int
}

func NewPDFBook(filename string) *PDFBook {
	return &PDFBook{
		Filename: filename,
		canvas:   vgpdf.New(8*vg.Inch, 8*vg.Inch),
	}
}

func (b *PDFBook) Pages() int {
	return b.pages
}

func (b *PDFBook) nextCanvas() draw.Canvas {
	if b.pages > 0 {
		b.canvas.NextPage()
	}
	b.pages++
	return draw.New(b.canvas)
}

// ToH1D returns the go-hep histogram behind h, ready for hplot.
func ToH1D(h *ggm.Histogram) *hbook.H1D {
	return h.H1D()
}

func newHistogramPlot(title string) *hplot.Plot {
	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = "charge - pedestal peak (ADC)"
	p.Y.Label.Text = "entries"
	return p
}

// WriteChannel draws the aligned pedestal and scaled total signal on the top
// half of a page and the extracted signal on the bottom half.
func (b *PDFBook) WriteChannel(analysis *ggm.ChannelAnalysis) error {
	top := newHistogramPlot(fmt.Sprintf("ch%d pedestal and total signal (scale %.4g)", analysis.Channel, analysis.Alignment.ScaleFactor))
	ped := hplot.NewH1D(ToH1D(analysis.Alignment.Pedestal))
	ped.LineStyle.Color = pedestalColor
	tot := hplot.NewH1D(ToH1D(analysis.Alignment.Total))
	tot.LineStyle.Color = totalColor
	top.Add(ped, tot)
	top.Legend.Add("pedestal", ped)
	top.Legend.Add("total signal", tot)

	bottom := newHistogramPlot(fmt.Sprintf("ch%d real signal, efficiency %.4g", analysis.Channel, analysis.Efficiency))
	diff := hplot.NewH1D(ToH1D(analysis.Difference))
	diff.LineStyle.Color = signalColor
	diff.Infos.Style = hplot.HInfoSummary
	bottom.Add(diff)

	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: 5 * vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{top.Plot}, {bottom.Plot}}, tiles, b.nextCanvas())
	top.Plot.Draw(canvases[0][0])
	bottom.Plot.Draw(canvases[1][0])
	return nil
}

// AddCurve draws the efficiency-vs-voltage graph of one channel on a page.
func (b *PDFBook) AddCurve(series ggm.CurveSeries) error {
	xys := make(plotter.XYs, len(series.Points))
	for i, point := range series.Points {
		xys[i].X = point.Voltage
		xys[i].Y = point.Efficiency
	}

	p := hplot.New()
	p.Title.Text = fmt.Sprintf("ch%d graph", series.Channel)
	p.X.Label.Text = "HV eff"
	p.Y.Label.Text = "efficiency"

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("error plotting channel %d: %w", series.Channel, err)
	}
	points.Shape = draw.CrossGlyph{}
	p.Add(line, points)
	p.Plot.Draw(b.nextCanvas())
	return nil
}

// Save writes every page drawn so far. A book with no pages is not written.
func (b *PDFBook) Save() error {
	if b.pages == 0 {
		return nil
	}
	file, err := os.Create(b.Filename)
	if err != nil {
		return &ggm.ErrOpenFile{Filename: b.Filename, Err: err}
	}
	if _, err := b.canvas.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("error writing %q: %w", b.Filename, err)
	}
	return file.Close()
}

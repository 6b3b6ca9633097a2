package plots

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	ggm "github.com/ggm-analysis/ggm_go/pkg"
	"github.com/wcharczuk/go-chart/v2"
)

// paddedRange widens a degenerate range so the chart can still be drawn.
func paddedRange(min float64, max float64) *chart.ContinuousRange {
	if max-min < 1e-9 {
		pad := math.Max(math.Abs(min)*0.05, 0.5)
		return &chart.ContinuousRange{Min: min - pad, Max: max + pad}
	}
	pad := (max - min) * 0.05
	return &chart.ContinuousRange{Min: min - pad, Max: max + pad}
}

// RenderCurve draws the efficiency-vs-voltage curve of one channel as a PNG.
func RenderCurve(w io.Writer, series ggm.CurveSeries) error {
	summary, err := ggm.SummarizeCurve(series)
	if err != nil {
		return err
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("ch%d graph", series.Channel),
		Width:  800,
		Height: 800,
		XAxis: chart.XAxis{
			Name:  "HV eff",
			Range: paddedRange(summary.MinVoltage, summary.MaxVoltage),
		},
		YAxis: chart.YAxis{
			Name:  "efficiency",
			Range: paddedRange(math.Min(0, summary.MinEfficiency), math.Max(1, summary.MaxEfficiency)),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("ch%d", series.Channel),
				XValues: series.Voltages(),
				YValues: series.Efficiencies(),
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    4,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// RenderCurveFiles writes ch<N>_graph.png in dir for every series.
func RenderCurveFiles(dir string, series []ggm.CurveSeries, logger ggm.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range series {
		filename := filepath.Join(dir, fmt.Sprintf("ch%d_graph.png", s.Channel))
		file, err := os.Create(filename)
		if err != nil {
			return &ggm.ErrOpenFile{Filename: filename, Err: err}
		}
		if err := RenderCurve(file, s); err != nil {
			file.Close()
			return fmt.Errorf("error rendering channel %d: %w", s.Channel, err)
		}
		if err := file.Close(); err != nil {
			return err
		}
		if logger.Verbosity() > 0 {
			logger.Info(fmt.Sprintf("Curve of channel %d written to %s", s.Channel, filename), "plots")
		}
	}
	return nil
}

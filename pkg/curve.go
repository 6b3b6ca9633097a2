package ggm

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CURVE_NORMALIZATION divides both voltage and efficiency read from DST files.
const CURVE_NORMALIZATION = 100.0

type CurvePoint struct {
	Channel    int     `csv:"channel"`
	Voltage    float64 `csv:"voltage"`
	Efficiency float64 `csv:"efficiency"`
}

// CurveSeries is the efficiency-vs-voltage curve of one channel, sorted by
// voltage.
type CurveSeries struct {
	Channel int
	Points  []CurvePoint
}

func (s CurveSeries) Voltages() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Voltage
	}
	return out
}

func (s CurveSeries) Efficiencies() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Efficiency
	}
	return out
}

// ListDSTFiles returns the DST files to aggregate. When path is a directory
// every *.dst file in it is used, otherwise path is a text file with one DST
// path per line. Listed files that do not exist are skipped with a warning.
func ListDSTFiles(path string, logger Logger) ([]string, error) {
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}

	if info.IsDir() {
		if logger.Verbosity() > 0 {
			logger.Info(fmt.Sprintf("Taking dst files from directory %s", path), "curve")
		}
		files, err := filepath.Glob(filepath.Join(path, "*.dst"))
		if err != nil {
			return nil, err
		}
		slices.Sort(files)
		return files, nil
	}

	if logger.Verbosity() > 0 {
		logger.Info(fmt.Sprintf("Taking dst files listed in %s", path), "curve")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &ErrOpenFile{Filename: path, Err: err}
	}
	defer file.Close()
	return readFileList(file, filepath.Dir(path), logger)
}

// readFileList resolves relative entries against dir.
func readFileList(r io.Reader, dir string, logger Logger) ([]string, error) {
	files := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		if _, err := os.Stat(name); err != nil {
			logger.Error(fmt.Sprintf("WARN: skipped file %s: %v", name, err))
			continue
		}
		files = append(files, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// CollectCurves reads every file concurrently and groups the normalised points by
// channel. Unreadable or malformed files are skipped with a warning. Channels
// with no points have no series; series come out in channel order.
func CollectCurves(files []string, logger Logger) []CurveSeries {
	byChannel := make(map[int][]CurvePoint)
	for _, result := range readDSTFiles(files, 0, logger) {
		if result.Err != nil {
			logger.Error(fmt.Sprintf("WARN: skipped file %s: %v", result.Filename, result.Err))
			continue
		}
		if logger.Verbosity() > 0 {
			logger.Info(fmt.Sprintf("extracted %d records from file %s", len(result.Records), result.Filename), "curve")
		}
		for _, record := range result.Records {
			point := CurvePoint{
				Channel:    record.Channel,
				Voltage:    record.BiasVoltage / CURVE_NORMALIZATION,
				Efficiency: record.Efficiency / CURVE_NORMALIZATION,
			}
			byChannel[record.Channel] = append(byChannel[record.Channel], point)
		}
	}

	channels := maps.Keys(byChannel)
	slices.Sort(channels)

	series := make([]CurveSeries, 0, len(channels))
	for _, ch := range channels {
		points := byChannel[ch]
		slices.SortStableFunc(points, func(a, b CurvePoint) int {
			return cmp.Compare(a.Voltage, b.Voltage)
		})
		series = append(series, CurveSeries{Channel: ch, Points: points})
	}
	return series
}

// WriteCurvesCSV writes every point of every series as one CSV table.
func WriteCurvesCSV(w io.Writer, series []CurveSeries) error {
	points := make([]CurvePoint, 0)
	for _, s := range series {
		points = append(points, s.Points...)
	}
	return gocsv.Marshal(&points, w)
}

// SaveCurvesCSV writes the curves to filename. Errors from closing the file
// are reported like write errors.
func SaveCurvesCSV(filename string, series []CurveSeries) error {
	file, err := os.Create(filename)
	if err != nil {
		return &ErrOpenFile{Filename: filename, Err: err}
	}
	if err := WriteCurvesCSV(file, series); err != nil {
		file.Close()
		return fmt.Errorf("error writing %q: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing %q: %w", filename, err)
	}
	return nil
}

type CurveSummary struct {
	Channel       int
	Points        int
	MinVoltage    float64
	MaxVoltage    float64
	MinEfficiency float64
	MaxEfficiency float64
	// PlateauVoltage is the lowest voltage reaching 95% of MaxEfficiency.
	PlateauVoltage float64
}

func SummarizeCurve(s CurveSeries) (CurveSummary, error) {
	summary := CurveSummary{Channel: s.Channel, Points: len(s.Points)}
	voltages := s.Voltages()
	efficiencies := s.Efficiencies()

	var err error
	if summary.MinVoltage, err = stats.Min(voltages); err != nil {
		return summary, fmt.Errorf("channel %d: %w", s.Channel, err)
	}
	if summary.MaxVoltage, err = stats.Max(voltages); err != nil {
		return summary, fmt.Errorf("channel %d: %w", s.Channel, err)
	}
	if summary.MinEfficiency, err = stats.Min(efficiencies); err != nil {
		return summary, fmt.Errorf("channel %d: %w", s.Channel, err)
	}
	if summary.MaxEfficiency, err = stats.Max(efficiencies); err != nil {
		return summary, fmt.Errorf("channel %d: %w", s.Channel, err)
	}

	summary.PlateauVoltage = summary.MaxVoltage
	for _, p := range s.Points {
		if p.Efficiency >= 0.95*summary.MaxEfficiency {
			summary.PlateauVoltage = p.Voltage
			break
		}
	}
	return summary, nil
}

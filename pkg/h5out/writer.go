package h5out

import (
	"errors"
	"fmt"
	"time"

	ggm "github.com/ggm-analysis/ggm_go/pkg"
	hdf5 "github.com/jmbenlloch/go-hdf5"
)

const (
	KIND_PEDESTAL int32 = iota
	KIND_TOTAL
	KIND_DIFFERENCE
)

var kindNames = []string{"pedestal", "total", "difference"}

// Writer stores the aligned histograms and the per-channel results of one
// run in an HDF5 file.
type Writer struct {
	File            *hdf5.File
	Filename        string
	RunGroup        *hdf5.Group
	HistogramsGroup *hdf5.Group
	RunInfoTable    *hdf5.Dataset
	KindsTable      *hdf5.Dataset
	BinsTable       *hdf5.Dataset
	ChannelsTable   *hdf5.Dataset
	Logger          ggm.Logger
	binRows         int
	channelRows     int
}

func NewWriter(filename string, runID string, compression int, logger ggm.Logger) (*Writer, error) {
	if logger.Verbosity() > 0 {
		logger.Info(fmt.Sprintf("Creating file %s", filename), "hdf5")
	}

	var err error
	writer := &Writer{Filename: filename, Logger: logger}
	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.HistogramsGroup, err = createGroup(writer.File, "Histograms"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.ChannelsTable, err = createTable(writer.RunGroup, "channels", ChannelHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.KindsTable, err = createTable(writer.HistogramsGroup, "kinds", HistogramKindHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.BinsTable, err = createTable(writer.HistogramsGroup, "bins", HistogramBinHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}

	runInfo := []RunInfoHDF5{{
		runID:     convertToHdf5String(runID),
		timestamp: time.Now().Unix(),
	}}
	if err := writeArrayToTable(writer.RunInfoTable, &runInfo, 0); err != nil {
		return nil, errors.Join(fmt.Errorf("error writing run info: %w", err), writer.Close())
	}

	// The array MUST be allocated at creation, appends will not work
	kinds := make([]HistogramKindHDF5, len(kindNames))
	for i, name := range kindNames {
		kinds[i] = HistogramKindHDF5{kind: int32(i), name: convertToHdf5String(name)}
	}
	if err := writeArrayToTable(writer.KindsTable, &kinds, 0); err != nil {
		return nil, errors.Join(fmt.Errorf("error writing histogram kinds: %w", err), writer.Close())
	}
	return writer, nil
}

func histogramRows(ch ggm.Channel, kind int32, hist *ggm.Histogram) []HistogramBinHDF5 {
	rows := make([]HistogramBinHDF5, hist.NBins())
	for bin := range rows {
		rows[bin] = HistogramBinHDF5{
			channel: int32(ch),
			kind:    kind,
			bin:     int32(bin),
			low:     hist.BinLowEdge(bin),
			center:  hist.BinCenter(bin),
			content: hist.Content(bin),
		}
	}
	return rows
}

// WriteChannel appends the bins of the pedestal, scaled total and difference
// histograms of one channel.
func (w *Writer) WriteChannel(analysis *ggm.ChannelAnalysis) error {
	rows := histogramRows(analysis.Channel, KIND_PEDESTAL, analysis.Alignment.Pedestal)
	rows = append(rows, histogramRows(analysis.Channel, KIND_TOTAL, analysis.Alignment.Total)...)
	rows = append(rows, histogramRows(analysis.Channel, KIND_DIFFERENCE, analysis.Difference)...)

	if err := writeArrayToTable(w.BinsTable, &rows, w.binRows); err != nil {
		return fmt.Errorf("error writing histograms of channel %d: %w", analysis.Channel, err)
	}
	w.binRows += len(rows)

	if w.Logger.Verbosity() > 1 {
		w.Logger.Info(fmt.Sprintf("Channel %d: %d histogram bins written", analysis.Channel, len(rows)), "hdf5")
	}
	return nil
}

// WriteResults appends one row per channel result.
func (w *Writer) WriteResults(results []ggm.ChannelResult) error {
	rows := make([]ChannelHDF5, len(results))
	for i, result := range results {
		rows[i] = ChannelHDF5{
			channel:     int32(result.Channel),
			status:      int32(result.Status),
			efficiency:  result.Efficiency,
			scaleFactor: result.ScaleFactor,
		}
	}
	if err := writeArrayToTable(w.ChannelsTable, &rows, w.channelRows); err != nil {
		return fmt.Errorf("error writing channel results: %w", err)
	}
	w.channelRows += len(rows)
	return nil
}

func (w *Writer) Close() error {
	if w.Logger.Verbosity() > 0 {
		w.Logger.Info(fmt.Sprintf("Closing file %s", w.Filename), "hdf5")
	}
	var errs []error

	datasets := []struct {
		name string
		dset *hdf5.Dataset
	}{
		{"run info table", w.RunInfoTable},
		{"channels table", w.ChannelsTable},
		{"kinds table", w.KindsTable},
		{"bins table", w.BinsTable},
	}
	for _, d := range datasets {
		if d.dset == nil {
			continue
		}
		if err := d.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", d.name, err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.HistogramsGroup != nil {
		if err := w.HistogramsGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing histograms group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}
	return errors.Join(errs...)
}

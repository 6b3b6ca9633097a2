package main

import (
	"flag"
	"fmt"
	"os"

	ggm "github.com/ggm-analysis/ggm_go/pkg"
	"github.com/ggm-analysis/ggm_go/pkg/plots"
)

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	output := flag.String("output", "efficiency_curve.pdf", "Output PDF with one page per channel")
	flag.Parse()

	dstFiles := "."
	if flag.NArg() > 0 {
		dstFiles = flag.Arg(0)
	}

	configuration, err := ggm.LoadConfiguration(*configFilename)
	verbosity := configuration.DebugMode
	if verbosity < 2 {
		verbosity = 2
	}
	logger := ggm.NewLogger(verbosity, os.Stdout, os.Stderr)
	if err != nil && *configFilename != "" {
		logger.Error(fmt.Sprintf("Error reading configuration file, using defaults: %v", err))
	}

	logger.Info("Plot Efficiency Curve started", "main")
	files, err := ggm.ListDSTFiles(dstFiles, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("WARN: check dst files list at %s: %v", dstFiles, err))
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error(fmt.Sprintf("WARN: no dst file in %s", dstFiles))
		os.Exit(1)
	}

	series := ggm.CollectCurves(files, logger)
	logger.Info("extraction finished", "main")

	book := plots.NewPDFBook(*output)
	for _, s := range series {
		summary, err := ggm.SummarizeCurve(s)
		if err != nil {
			logger.Error(err.Error())
			continue
		}
		message := fmt.Sprintf("Channel %d: %d points, HV %g..%g, max efficiency %g, plateau at %g",
			s.Channel, summary.Points, summary.MinVoltage, summary.MaxVoltage, summary.MaxEfficiency, summary.PlateauVoltage)
		logger.Info(message, "main")

		if err := book.AddCurve(s); err != nil {
			logger.Error(err.Error())
		}
	}
	if err := book.Save(); err != nil {
		logger.Error(fmt.Sprintf("Error saving %s: %v", *output, err))
		os.Exit(1)
	}

	status := 0
	if configuration.CurveCSV != "" {
		if err := ggm.SaveCurvesCSV(configuration.CurveCSV, series); err != nil {
			logger.Error(err.Error())
			status = 1
		}
	}

	if configuration.CurvePNGDir != "" {
		if err := plots.RenderCurveFiles(configuration.CurvePNGDir, series, logger); err != nil {
			logger.Error(err.Error())
			status = 1
		}
	}
	os.Exit(status)
}

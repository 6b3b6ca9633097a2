package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	ggm "github.com/ggm-analysis/ggm_go/pkg"
	"github.com/ggm-analysis/ggm_go/pkg/h5out"
	"github.com/ggm-analysis/ggm_go/pkg/plots"
	"github.com/google/uuid"
)

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	run := flag.String("run", "", "Run name used to query bias voltages in the database")
	flag.Parse()
	if *configFilename == "" && flag.NArg() > 0 {
		*configFilename = flag.Arg(0)
	}

	os.Exit(analyze(*configFilename, *run))
}

func analyze(configFilename string, run string) int {
	configuration, err := ggm.LoadConfiguration(configFilename)
	logger := ggm.NewLogger(configuration.DebugMode, os.Stdout, os.Stderr)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file, using defaults: %w", err)
		logger.Error(message.Error())
	}

	runID := uuid.New().String()
	if logger.Verbosity() > 0 {
		logger.Info(fmt.Sprintf("Reading configuration file: %s", configFilename), "main")
		logger.Info(fmt.Sprintf("Run ID: %s", runID), "main")
		ggm.PrintConfiguration(configuration, logger)
	}

	excluded, err := configuration.Excluded()
	if err != nil {
		logger.Error(fmt.Sprintf("Error parsing excluded channels: %v", err))
	}

	analysis := &ggm.Analysis{
		RunID:          runID,
		Parameters:     configuration.Parameters(),
		Excluded:       excluded,
		MinimumEntries: configuration.MinimumEntries,
		Logger:         logger,
		Records:        ggm.NewDSTWriter(configuration.DSTPath()),
	}

	if configuration.HVDBHost != "" {
		dbConn, err := ggm.ConnectToDatabase(configuration.HVDBUser, configuration.HVDBPasswd, configuration.HVDBHost, configuration.HVDBName)
		if err != nil {
			message := fmt.Errorf("Error connection to database: %w", err)
			logger.Error(message.Error())
			return 1
		}
		defer dbConn.Close()
		if run == "" {
			run = configuration.RunName()
		}
		analysis.Voltages = ggm.NewDBVoltageSource(dbConn, run, logger)
	} else {
		analysis.Voltages = &ggm.DSTVoltageSource{Filename: configuration.HVPath()}
	}

	book := plots.NewPDFBook(configuration.OutputFile)
	analysis.Sinks = append(analysis.Sinks, book)

	var writer *h5out.Writer
	if configuration.HDF5File != "" {
		writer, err = h5out.NewWriter(configuration.HDF5File, runID, configuration.CompressionLevel, logger)
		if err != nil {
			message := fmt.Errorf("Error creating HDF5 file: %w", err)
			logger.Error(message.Error())
			return 1
		}
		analysis.Sinks = append(analysis.Sinks, writer)
	}

	results, runErr := analysis.RunFiles(configuration.PedestalFile, configuration.TotalSignalFile)

	status := 0
	if runErr != nil {
		logger.Error(fmt.Sprintf("Error running analysis: %v", runErr))
		status = 1
		var ingestionErr *ggm.IngestionError
		var entriesErr *ggm.InsufficientEntriesError
		if errors.As(runErr, &ingestionErr) || errors.As(runErr, &entriesErr) {
			status = 2
		}
	}

	if err := book.Save(); err != nil {
		logger.Error(fmt.Sprintf("Error saving %s: %v", configuration.OutputFile, err))
	}

	if writer != nil {
		if err := writer.WriteResults(results); err != nil {
			logger.Error(err.Error())
		}
		if err := writer.Close(); err != nil {
			logger.Error(err.Error())
		}
	}

	for _, result := range results {
		if logger.Verbosity() > 0 {
			message := fmt.Sprintf("Channel %d: %s, efficiency %g", result.Channel, result.Status, result.Efficiency)
			logger.Info(message, "main")
		}
	}
	return status
}

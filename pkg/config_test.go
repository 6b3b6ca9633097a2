package ggm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name string, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadConfigurationKeyValue(t *testing.T) {
	filename := writeConfig(t, "GGM.conf", `pedestal-file: /data/run42_ped.raw
total-signal-file: /data/run42_tot.raw
dst-file: run42
output-file = run42.pdf
excluded_channels: 3, 13
debug_mode: 2
rms_min: 2.5
`)

	config, err := LoadConfiguration(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.PedestalFile != "/data/run42_ped.raw" || config.TotalSignalFile != "/data/run42_tot.raw" {
		t.Errorf("input files = %q, %q", config.PedestalFile, config.TotalSignalFile)
	}
	if config.DSTPath() != "run42.dst" || config.OutputFile != "run42.pdf" {
		t.Errorf("outputs = %q, %q", config.DSTPath(), config.OutputFile)
	}
	if config.DebugMode != 2 {
		t.Errorf("debug_mode = %d, want 2", config.DebugMode)
	}
	if params := config.Parameters(); params.RMSMin != 2.5 || params.BinWidth != BIN_WIDTH {
		t.Errorf("parameters = %+v", params)
	}
	if config.MinimumEntries != MINIMUM_ENTRIES {
		t.Errorf("minimum_entries default = %d", config.MinimumEntries)
	}
	if config.HVPath() != filepath.Join("DSToriginali", "run42_l_3.dst") {
		t.Errorf("hv path = %q", config.HVPath())
	}

	excluded, err := config.Excluded()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(excluded) != 2 || excluded[0] != 3 || excluded[1] != 13 {
		t.Errorf("excluded = %v, want [3 13]", excluded)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.PedestalFile != "temp1.raw" || config.TotalSignalFile != "temp2.raw" ||
		config.OutputFile != "temp.pdf" || config.ExcludedChannels != "13" || config.DebugMode != 0 {
		t.Errorf("defaults = %+v", config)
	}
	if config.DSTPath() != "temp.dst" {
		t.Errorf("dst path = %q", config.DSTPath())
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	config, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.conf"))
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("got %v, want ConfigError", err)
	}
	if config.PedestalFile != "temp1.raw" || config.ExcludedChannels != "13" {
		t.Errorf("defaults not returned with the error: %+v", config)
	}
}

func TestLoadConfigurationMalformedValue(t *testing.T) {
	filename := writeConfig(t, "GGM.conf", "debug_mode: loud\n")
	config, err := LoadConfiguration(filename)
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("got %v, want ConfigError", err)
	}
	if config.DebugMode != 0 {
		t.Errorf("debug_mode = %d, want the default", config.DebugMode)
	}
}

func TestLoadConfigurationJSON(t *testing.T) {
	filename := writeConfig(t, "ggm.json", `{"pedestal-file": "ped.raw", "excluded_channels": "", "hdf5-file": "run.h5"}`)
	config, err := LoadConfiguration(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.PedestalFile != "ped.raw" || config.HDF5File != "run.h5" || config.TotalSignalFile != "temp2.raw" {
		t.Errorf("config = %+v", config)
	}
	excluded, err := config.Excluded()
	if err != nil || len(excluded) != 0 {
		t.Errorf("excluded = %v, %v", excluded, err)
	}
}

func TestParseChannelList(t *testing.T) {
	channels, err := ParseChannelList("1, x, 17,4")
	if err == nil {
		t.Errorf("bad tokens accepted")
	}
	if len(channels) != 2 || channels[0] != 1 || channels[1] != 4 {
		t.Errorf("channels = %v, want [1 4]", channels)
	}
}

func TestPrintConfiguration(t *testing.T) {
	logger := &recordingLogger{verbosity: 1}
	PrintConfiguration(DefaultConfiguration(), logger)
	if !logger.infoContaining("[config] Excluded channels: 13") {
		t.Errorf("configuration not printed: %v", logger.infos)
	}
}

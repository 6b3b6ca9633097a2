package ggm

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Configuration struct {
	PedestalFile     string  `mapstructure:"pedestal-file"`
	TotalSignalFile  string  `mapstructure:"total-signal-file"`
	DSTFile          string  `mapstructure:"dst-file"`
	OutputFile       string  `mapstructure:"output-file"`
	ExcludedChannels string  `mapstructure:"excluded_channels"`
	DebugMode        int     `mapstructure:"debug_mode"`
	BinWidth         float64 `mapstructure:"bin_width"`
	RMSMin           float64 `mapstructure:"rms_min"`
	MinimumEntries   int     `mapstructure:"minimum_entries"`
	HVFile           string  `mapstructure:"hv-file"`
	HVDBHost         string  `mapstructure:"hv-db-host"`
	HVDBUser         string  `mapstructure:"hv-db-user"`
	HVDBPasswd       string  `mapstructure:"hv-db-pass"`
	HVDBName         string  `mapstructure:"hv-db-name"`
	HDF5File         string  `mapstructure:"hdf5-file"`
	CompressionLevel int     `mapstructure:"compression_level"`
	CurveCSV         string  `mapstructure:"curve-csv"`
	CurvePNGDir      string  `mapstructure:"curve-png-dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pedestal-file", "temp1.raw")
	v.SetDefault("total-signal-file", "temp2.raw")
	v.SetDefault("dst-file", "temp.dst")
	v.SetDefault("output-file", "temp.pdf")
	v.SetDefault("excluded_channels", "13")
	v.SetDefault("debug_mode", 0)
	v.SetDefault("bin_width", BIN_WIDTH)
	v.SetDefault("rms_min", RMS_MIN)
	v.SetDefault("minimum_entries", MINIMUM_ENTRIES)
	v.SetDefault("hv-file", "")
	v.SetDefault("hv-db-host", "")
	v.SetDefault("hv-db-user", "ggmreader")
	v.SetDefault("hv-db-pass", "readonly")
	v.SetDefault("hv-db-name", "GGM")
	v.SetDefault("hdf5-file", "")
	v.SetDefault("compression_level", 4)
	v.SetDefault("curve-csv", "")
	v.SetDefault("curve-png-dir", "")
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() Configuration {
	v := viper.New()
	setDefaults(v)
	var config Configuration
	// defaults alone always decode
	_ = v.Unmarshal(&config)
	return config
}

// LoadConfiguration reads a key/value file ("key: value" or "key=value").
// Files ending in .json, .yaml, .yml or .toml are read in that format. On
// any error the defaults are returned together with a *ConfigError.
func LoadConfiguration(filename string) (Configuration, error) {
	if filename == "" {
		return DefaultConfiguration(), nil
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filename)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".yaml", ".yml", ".toml":
	default:
		v.SetConfigType("properties")
	}

	if err := v.ReadInConfig(); err != nil {
		return DefaultConfiguration(), &ConfigError{Filename: filename, Err: err}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return DefaultConfiguration(), &ConfigError{Filename: filename, Err: err}
	}
	return config, nil
}

// Parameters returns the pipeline constants, falling back to the defaults
// for non-positive values.
func (c Configuration) Parameters() Parameters {
	params := DefaultParameters()
	if c.BinWidth > 0 {
		params.BinWidth = c.BinWidth
	}
	if c.RMSMin > 0 {
		params.RMSMin = c.RMSMin
	}
	return params
}

// RunName is dst-file without its extension. Every file of a run is named
// after it.
func (c Configuration) RunName() string {
	return strings.TrimSuffix(c.DSTFile, ".dst")
}

// DSTPath is the file records are appended to: <dst-file>.dst, without
// doubling an extension the key already carries.
func (c Configuration) DSTPath() string {
	if c.RunName() == "" {
		return "temp.dst"
	}
	return fmt.Sprintf("%s.dst", c.RunName())
}

// HVPath is the original DST file holding the bias voltages of the run.
func (c Configuration) HVPath() string {
	if c.HVFile != "" {
		return c.HVFile
	}
	return filepath.Join("DSToriginali", fmt.Sprintf("%s_l_3.dst", c.RunName()))
}

// Excluded parses the comma-separated excluded_channels list. Tokens that are
// not channel numbers are reported in the error and left out of the list.
func (c Configuration) Excluded() ([]Channel, error) {
	return ParseChannelList(c.ExcludedChannels)
}

func ParseChannelList(list string) ([]Channel, error) {
	channels := make([]Channel, 0)
	var errs []error
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		value, err := strconv.Atoi(token)
		if err != nil {
			errs = append(errs, fmt.Errorf("excluded channel %q is not a number", token))
			continue
		}
		ch := Channel(value)
		if !ch.Valid() {
			errs = append(errs, fmt.Errorf("excluded channel %d out of range 1..%d", value, AVAILABLE_CHANNELS))
			continue
		}
		channels = append(channels, ch)
	}
	return channels, errors.Join(errs...)
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Pedestal file: %s", config.PedestalFile), "config")
	logger.Info(fmt.Sprintf("Total signal file: %s", config.TotalSignalFile), "config")
	logger.Info(fmt.Sprintf("DST file: %s", config.DSTPath()), "config")
	logger.Info(fmt.Sprintf("Output file: %s", config.OutputFile), "config")
	logger.Info(fmt.Sprintf("Excluded channels: %s", config.ExcludedChannels), "config")
	logger.Info(fmt.Sprintf("Debug mode: %d", config.DebugMode), "config")
	logger.Info(fmt.Sprintf("Bin width: %g", config.BinWidth), "config")
	logger.Info(fmt.Sprintf("RMS min: %g", config.RMSMin), "config")
	logger.Info(fmt.Sprintf("Minimum entries: %d", config.MinimumEntries), "config")
	logger.Info(fmt.Sprintf("HV file: %s", config.HVPath()), "config")
	logger.Info(fmt.Sprintf("HV DB host: %s", config.HVDBHost), "config")
	logger.Info(fmt.Sprintf("HV DB name: %s", config.HVDBName), "config")
	logger.Info(fmt.Sprintf("HDF5 file: %s", config.HDF5File), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
}

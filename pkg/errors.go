package ggm

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// EmptyRangeError is returned when a sample has no usable spread to build
// a histogram from: an empty sample, or a trimmed range with less than one bin.
type EmptyRangeError struct {
	Entries int
	Low     float64
	Up      float64
}

func (e *EmptyRangeError) Error() string {
	if e.Entries == 0 {
		return "empty range: sample has no entries"
	}
	return fmt.Sprintf("empty range: [%g, %g) holds no bins for %d entries", e.Low, e.Up, e.Entries)
}

// DivideByZeroError is returned when a normalization denominator is zero.
type DivideByZeroError struct {
	Quantity string
}

func (e *DivideByZeroError) Error() string {
	return fmt.Sprintf("division by zero: %s is zero", e.Quantity)
}

// IngestionError represents an unreadable or malformed raw event file.
// Line is 0 when the error is not tied to a particular row.
type IngestionError struct {
	Filename string
	Line     int
	Err      error
}

func (e *IngestionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error reading %q at line %d: %v", e.Filename, e.Line, e.Err)
	}
	return fmt.Sprintf("error reading %q: %v", e.Filename, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// ConfigError represents a missing or malformed configuration file.
// It is never fatal: defaults are used instead.
type ConfigError struct {
	Filename string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("error reading configuration %q: %v", e.Filename, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// InsufficientEntriesError is returned when the pedestal table holds too few
// events for the run to be analysed.
type InsufficientEntriesError struct {
	Filename string
	Entries  int
	Minimum  float64
}

func (e *InsufficientEntriesError) Error() string {
	return fmt.Sprintf("too few events in %q: %d, need at least %g", e.Filename, e.Entries, e.Minimum)
}

// TooManyBinsError is returned when a range would need more than MAX_BINS
// bins, usually because of a few extreme outliers in the sample.
type TooManyBinsError struct {
	Bins int
	Low  float64
	Up   float64
}

func (e *TooManyBinsError) Error() string {
	return fmt.Sprintf("too many bins: [%g, %g) needs %d bins, limit is %d", e.Low, e.Up, e.Bins, MAX_BINS)
}

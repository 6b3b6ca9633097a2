package ggm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	// AVAILABLE_CHANNELS is the number of ADC channels in a raw file.
	AVAILABLE_CHANNELS = 16
	// N_COLUMNS is the fixed number of fields per raw event row.
	N_COLUMNS = 20
	// firstChannelColumn is the zero-based column of channel_1.
	firstChannelColumn = 4
)

// Channel is a 1-based ADC channel index.
type Channel int

func (c Channel) Valid() bool {
	return c >= 1 && c <= AVAILABLE_CHANNELS
}

func (c Channel) String() string {
	return fmt.Sprintf("channel_%d", int(c))
}

// Channels returns every channel in processing order.
func Channels() []Channel {
	channels := make([]Channel, AVAILABLE_CHANNELS)
	for i := range channels {
		channels[i] = Channel(i + 1)
	}
	return channels
}

// Event is one row of a raw file. Auxiliary columns are kept but unused.
type Event struct {
	EventID   uint32
	Column2   float64
	Timestamp float64
	Column4   float64
	Charges   [AVAILABLE_CHANNELS]float64
}

// EventTable holds the rows of one raw file. It is not modified after
// ReadEventTable returns.
type EventTable struct {
	Name   string
	events []Event
}

func NewEventTable(name string, events []Event) *EventTable {
	return &EventTable{Name: name, events: events}
}

func (t *EventTable) Entries() int {
	return len(t.events)
}

// Sample returns a fresh copy of the charges recorded on ch.
func (t *EventTable) Sample(ch Channel) ([]float64, error) {
	if !ch.Valid() {
		return nil, fmt.Errorf("invalid channel %d, expected 1..%d", int(ch), AVAILABLE_CHANNELS)
	}
	sample := make([]float64, len(t.events))
	for i, event := range t.events {
		sample[i] = event.Charges[ch-1]
	}
	return sample, nil
}

// ReadEventTable loads a whitespace-delimited raw file.
func ReadEventTable(filename string, name string) (*EventTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &IngestionError{Filename: filename, Err: err}
	}
	defer file.Close()

	table, err := ParseEventTable(file, name)
	if err != nil {
		var ingestionErr *IngestionError
		if errors.As(err, &ingestionErr) {
			ingestionErr.Filename = filename
		}
		return nil, err
	}
	return table, nil
}

// ParseEventTable reads rows of N_COLUMNS numeric fields. Blank lines are
// skipped; any other malformed row fails the whole table.
func ParseEventTable(r io.Reader, name string) (*EventTable, error) {
	events := make([]Event, 0, 1024)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		event, err := parseEvent(fields)
		if err != nil {
			return nil, &IngestionError{Filename: name, Line: lineNumber, Err: err}
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, &IngestionError{Filename: name, Err: err}
	}
	return NewEventTable(name, events), nil
}

func parseEvent(fields []string) (Event, error) {
	var event Event
	if len(fields) != N_COLUMNS {
		return event, fmt.Errorf("expected %d columns, found %d", N_COLUMNS, len(fields))
	}

	values := make([]float64, N_COLUMNS)
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return event, fmt.Errorf("column %d: %w", i+1, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return event, fmt.Errorf("column %d: non-finite value %q", i+1, field)
		}
		values[i] = value
	}

	event.EventID = uint32(values[0])
	event.Column2 = values[1]
	event.Timestamp = values[2]
	event.Column4 = values[3]
	copy(event.Charges[:], values[firstChannelColumn:])
	return event, nil
}

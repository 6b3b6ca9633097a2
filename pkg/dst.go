package ggm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DST_MIN_FIELDS is the number of fields of a DST record. Older files carry
// two extra trailing columns, which are ignored.
const DST_MIN_FIELDS = 8

// DSTRecord is one line of a .dst file:
//
//	<unix_timestamp> <channel> 0 0 0 0 <efficiency> <bias_voltage>
type DSTRecord struct {
	Timestamp   int64
	Channel     int
	Efficiency  float64
	BiasVoltage float64
}

func (r DSTRecord) String() string {
	return fmt.Sprintf("%d %d 0 0 0 0 %g %g", r.Timestamp, r.Channel, r.Efficiency, r.BiasVoltage)
}

// ParseDSTRecord parses one whitespace-separated DST line.
func ParseDSTRecord(line string) (DSTRecord, error) {
	var record DSTRecord
	fields := strings.Fields(line)
	if len(fields) < DST_MIN_FIELDS {
		return record, fmt.Errorf("expected at least %d fields, found %d", DST_MIN_FIELDS, len(fields))
	}

	values := make([]float64, DST_MIN_FIELDS)
	for i := 0; i < DST_MIN_FIELDS; i++ {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return record, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = value
	}

	record.Timestamp = int64(values[0])
	record.Channel = int(values[1])
	record.Efficiency = values[6]
	record.BiasVoltage = values[7]
	return record, nil
}

// ReadDSTRecords parses every non-blank line of r.
func ReadDSTRecords(r io.Reader) ([]DSTRecord, error) {
	records := make([]DSTRecord, 0, AVAILABLE_CHANNELS)
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record, err := ParseDSTRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func ReadDSTFile(filename string) ([]DSTRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	records, err := ReadDSTRecords(file)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return records, nil
}

// DSTWriter appends records to a .dst file. The file is opened in append
// mode for every record so lines keep the order of the calls.
type DSTWriter struct {
	Filename string
}

func NewDSTWriter(filename string) *DSTWriter {
	return &DSTWriter{Filename: filename}
}

func (w *DSTWriter) Append(record DSTRecord) error {
	file, err := os.OpenFile(w.Filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &ErrOpenFile{Filename: w.Filename, Err: err}
	}

	if _, err := fmt.Fprintln(file, record.String()); err != nil {
		file.Close()
		return fmt.Errorf("error writing %q: %w", w.Filename, err)
	}
	return file.Close()
}

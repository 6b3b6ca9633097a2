package ggm

import (
	"fmt"

	sqlx "github.com/jmoiron/sqlx"
)

// VoltageSource looks up the bias voltage a channel was operated at.
type VoltageSource interface {
	BiasVoltage(ch Channel) (float64, error)
}

// DSTVoltageSource reads voltages from the original DST file of the run,
// where the second column is the zero-based channel and the eighth the
// voltage. The file is read once, on first use; a read failure is kept and
// returned for every channel.
type DSTVoltageSource struct {
	Filename string
	loaded   bool
	voltages map[int]float64
	err      error
}

func (s *DSTVoltageSource) load() {
	s.loaded = true
	records, err := ReadDSTFile(s.Filename)
	if err != nil {
		s.err = err
		return
	}
	s.voltages = make(map[int]float64, len(records))
	for _, record := range records {
		if _, ok := s.voltages[record.Channel]; !ok {
			s.voltages[record.Channel] = record.BiasVoltage
		}
	}
}

func (s *DSTVoltageSource) BiasVoltage(ch Channel) (float64, error) {
	if !s.loaded {
		s.load()
	}
	if s.err != nil {
		return 0, s.err
	}
	voltage, ok := s.voltages[int(ch)-1]
	if !ok {
		return 0, fmt.Errorf("channel %d not present in %q", ch, s.Filename)
	}
	return voltage, nil
}

// DBVoltageSource reads the voltages of one run from the BiasVoltage table.
// The table is queried once, on first use.
type DBVoltageSource struct {
	DB       *sqlx.DB
	Run      string
	Logger   Logger
	voltages map[int]float64
}

func NewDBVoltageSource(db *sqlx.DB, run string, logger Logger) *DBVoltageSource {
	return &DBVoltageSource{DB: db, Run: run, Logger: logger}
}

func (s *DBVoltageSource) BiasVoltage(ch Channel) (float64, error) {
	if s.voltages == nil {
		voltages, err := getBiasVoltagesFromDB(s.DB, s.Run, s.Logger)
		if err != nil {
			return 0, fmt.Errorf("error getting bias voltages from database: %w", err)
		}
		s.voltages = voltages
	}
	voltage, ok := s.voltages[int(ch)]
	if !ok {
		return 0, fmt.Errorf("channel %d of run %s not present in database", ch, s.Run)
	}
	return voltage, nil
}

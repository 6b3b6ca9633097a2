package ggm

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type BiasVoltageEntry struct {
	Channel int     `db:"Channel"`
	Voltage float64 `db:"Voltage"`
}

// getBiasVoltagesFromDB returns the voltages of every channel recorded for
// run, keyed by channel.
func getBiasVoltagesFromDB(db *sqlx.DB, run string, logger Logger) (map[int]float64, error) {
	query := "SELECT Channel, Voltage FROM BiasVoltage WHERE Run = ? ORDER BY Channel"
	if logger.Verbosity() > 0 {
		logger.Info(fmt.Sprintf("Reading bias voltages of run %s from database", run), "database")
	}
	if logger.Verbosity() > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}

	rows, err := db.Queryx(query, run)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	voltages := make(map[int]float64)
	for rows.Next() {
		result := BiasVoltageEntry{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		voltages[result.Channel] = result.Voltage
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating DB rows: %w", err)
	}
	return voltages, nil
}

package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const RateStandardsSchema = `
	CREATE TABLE IF NOT EXISTS rate_standards (
		classification VARCHAR NOT NULL,
		location VARCHAR NOT NULL DEFAULT 'default',
		hourly_rate DOUBLE NOT NULL,
		overtime_threshold DOUBLE NOT NULL DEFAULT 40.0,
		description VARCHAR,
		PRIMARY KEY (classification, location)
	);
`

var bootQueries = []string{
	RateStandardsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

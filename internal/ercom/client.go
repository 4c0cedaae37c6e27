// Package ercom reads the legacy ERCOM production database. Access is
// strictly read-only: the legacy MySQL schema stays untouched and every
// query here is a plain SELECT.
package ercom

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// Client wraps a connection to the legacy database. The DSN must carry
// parseTime=true so date columns scan into time.Time.
type Client struct {
	db *sql.DB
}

func Open(dsn string) (*Client, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ercom db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ercom db: %w", err)
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// MachineName maps a legacy machine number to its shop-floor name.
// Unknown numbers map to the empty string.
func MachineName(machineNo int) string {
	switch machineNo {
	case 2:
		return "Murat TT"
	case 23:
		return "Murat NR242"
	case 24:
		return "Kaban CNC FA-1030"
	}
	return ""
}

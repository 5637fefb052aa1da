package db

import (
	"database/sql"
)

// Database abstracts the lifecycle of the underlying SQL store so the server
// can swap drivers without touching the repositories.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}

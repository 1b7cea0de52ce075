package persistence

import "errors"

var (
	// ErrInvalidImportFile is returned when an uploaded file fails the
	// magic-byte check or cannot be opened as a relational database.
	ErrInvalidImportFile = errors.New("persistence: not a valid SQLite database file")
	// ErrEmptyImport is returned when no file bytes were supplied.
	ErrEmptyImport = errors.New("persistence: empty import file")
)

// sqliteMagic is the first 16 bytes of every valid SQLite 3 database file.
const sqliteMagic = "SQLite format 3\x00"

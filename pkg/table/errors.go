package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound indicates the spreadsheet file does not exist.
	ErrFileNotFound = errors.New("spreadsheet not found")
	// ErrMissingColumns indicates required columns are absent from the header row.
	ErrMissingColumns = errors.New("required columns missing")
	// ErrUnsupportedFormat indicates the file extension is not a known spreadsheet format.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrEmpty indicates the sheet has no header row.
	ErrEmpty = errors.New("spreadsheet has no header row")
	// ErrUnknownTable indicates a logical table name with no configured source.
	ErrUnknownTable = errors.New("unknown table")
)

// LoadError describes a failed table load. Missing lists absent required columns
// when Err is ErrMissingColumns.
type LoadError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *LoadError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("load %s: %v: %s", e.Path, e.Err, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

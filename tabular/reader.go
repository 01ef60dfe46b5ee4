package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("log")

// ErrMissingFile marks a source table that does not exist on disk.
// Callers treat the table as empty instead of failing the run.
var ErrMissingFile = errors.New("table file not found")

// Row holds one record of a table, keyed by header name.
type Row = map[string]string

// ReadTable reads a UTF-8 delimited table into header-keyed rows. Rows with
// a mismatched field count are padded or truncated to the header width.
// A file with only a header yields an empty slice.
func ReadTable(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("could not open table %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("table %s has no header row", path)
		}
		return nil, fmt.Errorf("could not read header of %s: %w", path, err)
	}
	for i, name := range header {
		header[i] = strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")
	}

	rows := make([]Row, 0)
	rowNum := 1 // header is row 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			log.Warningf("Skipping unreadable row %d of %s: %v", rowNum, path, err)
			continue
		}
		if len(record) != len(header) {
			log.Warningf("Row %d of %s has %d fields, expected %d", rowNum, path, len(record), len(header))
			if len(record) < len(header) {
				padded := make([]string, len(header))
				copy(padded, record)
				record = padded
			} else {
				record = record[:len(header)]
			}
		}
		row := make(Row, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

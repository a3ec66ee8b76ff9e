// Package fetcher loads raw provider data: JSON over HTTP, JSON or YAML
// fixture files, and CSV or XLSX tables.
package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when a remote resource responds 404.
var ErrNotFound = eris.New("fetcher: not found")

// Fetcher retrieves the body at a URL.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// ReadTableFile reads a CSV, TSV or XLSX file into rows, choosing the parser
// by extension, and trims it with TrimTable.
func ReadTableFile(path string) ([][]string, error) {
	rows, err := readTableFile(path)
	if err != nil {
		return nil, err
	}
	return TrimTable(rows), nil
}

func readTableFile(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, XLSXOptions{})
	case ".csv", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: open table")
		}
		defer f.Close() //nolint:errcheck

		opts := CSVOptions{}
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			opts.Delimiter = '\t'
		}
		return ReadCSV(f, opts)
	default:
		return nil, eris.Errorf("fetcher: unsupported table file %q", filepath.Base(path))
	}
}

// TrimTable drops blank rows and any title rows above the header. Exported
// sheets often open with a caption ("Flights to Istanbul") in one cell; a
// leading row is treated as a caption when it has fewer filled cells than the
// widest row.
func TrimTable(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	widest := 0
	for _, row := range rows {
		n := filled(row)
		if n == 0 {
			continue
		}
		widest = max(widest, n)
		out = append(out, row)
	}

	start := 0
	for start < len(out)-1 && filled(out[start]) < widest {
		start++
	}
	return out[start:]
}

func filled(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

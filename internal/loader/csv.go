package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeldja/ProScout/internal/models"
)

var ErrEmptyFile = errors.New("file has no header row")

// ReadTable reads a CSV file whose first row is the header.
func ReadTable(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadTableFrom(f, path)
}

// ReadTableFrom reads a headed CSV stream. name labels errors.
func ReadTableFrom(src io.Reader, name string) (*models.Table, error) {
	r := newReader(src)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	table, err := readRows(r, cleanHeader(header))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return table, nil
}

// ReadHeaderlessTable reads a data file without a header, naming its
// columns from the first row of headerPath. Extra trailing cells are dropped.
func ReadHeaderlessTable(dataPath, headerPath string) (*models.Table, error) {
	hf, err := os.Open(headerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", headerPath, err)
	}
	defer hf.Close()

	header, err := newReader(hf).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", headerPath, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header file %s: %w", headerPath, err)
	}

	df, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dataPath, err)
	}
	defer df.Close()

	table, err := readRows(newReader(df), cleanHeader(header))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dataPath, err)
	}
	return table, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func readRows(r *csv.Reader, header []string) (*models.Table, error) {
	table := &models.Table{Columns: header}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := make(models.Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			if _, dup := rec[name]; dup || name == "" {
				continue
			}
			rec[name] = row[i]
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

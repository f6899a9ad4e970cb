// Package dataset loads specimen trait tables.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/morphospace/pkg/shell"
)

// NameColumn holds the optional specimen name.
const NameColumn = "species"

// ErrNoHeader is returned for an empty dataset.
var ErrNoHeader = errors.New("dataset has no header row")

// Sample is one named specimen. Err is set, as a *RowError, when the row
// could not be converted; such samples are reported rather than generated.
type Sample struct {
	Name   string
	Line   int // 1-based CSV line, 0 when not loaded from a file
	Traits shell.Traits
	Err    error
}

// RowError reports a row that could not be converted to traits.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Load reads a CSV dataset from path.
func Load(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Invalid returns the samples that carry a row error, joined, or nil.
func Invalid(samples []Sample) error {
	var errs []error
	for _, s := range samples {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// Read parses a CSV dataset: a header of trait names, optionally a
// "species" column, then one specimen per row. Unknown columns are ignored.
// A row with bad values is kept with Err set; a header missing a trait
// column fails the whole read.
func Read(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]bool, len(header))
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
		columns[header[i]] = true
	}
	for _, key := range shell.TraitKeys {
		if !columns[key] {
			return nil, fmt.Errorf("missing column %q: %w", key, shell.ErrInvalidParameter)
		}
	}

	var samples []Sample
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		row := make(map[string]any, len(header))
		for i, key := range header {
			row[key] = strings.TrimSpace(record[i])
		}

		name, _ := row[NameColumn].(string)
		if name == "" {
			name = fmt.Sprintf("sample_%04d", len(samples)+1)
		}
		s := Sample{Name: name, Line: line}

		tr, err := shell.TraitsFromMap(row)
		if err != nil {
			s.Err = &RowError{Line: line, Err: err}
		} else {
			s.Traits = tr
		}
		samples = append(samples, s)
	}
	return samples, nil
}

package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cprefsql/cprefengine/internal/value"
)

// Source is a relational source: a named collection of tables, each a
// batch of Records. It stands behind the CLI's (preferences file,
// relational source, table name) signature; any backing store
// implementing this interface is usable from cmd/cprefctl.
type Source interface {
	Table(name string) ([]Record, error)
}

// CSVSource loads tables from CSV readers, one reader per table, keyed
// by the caller-supplied table name (matched case-insensitively). The
// first row is the header
// (attribute names, case-folded to upper on load); remaining rows are
// records. A cell parses as an integer if it round-trips a base-10
// int64, as a float if it parses as a float64, and otherwise stays a
// string (quotes, if any, are CSV's own and already stripped).
type CSVSource struct {
	tables map[string][]Record
}

// NewCSVSource builds a Source from table-name -> csv-reader pairs.
func NewCSVSource(tables map[string]io.Reader) (*CSVSource, error) {
	s := &CSVSource{tables: make(map[string][]Record, len(tables))}
	for name, r := range tables {
		recs, err := readCSVTable(r)
		if err != nil {
			return nil, fmt.Errorf("record: loading table %q: %w", name, err)
		}
		s.tables[strings.ToUpper(name)] = recs
	}
	return s, nil
}

func (s *CSVSource) Table(name string) ([]Record, error) {
	recs, ok := s.tables[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("record: unknown table %q", name)
	}
	return recs, nil
}

func readCSVTable(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToUpper(strings.TrimSpace(h))
	}
	recs := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = parseCell(cell)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseCell(cell string) value.Value {
	cell = strings.TrimSpace(cell)
	if iv, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return value.NewInteger(iv)
	}
	if fv, err := strconv.ParseFloat(cell, 64); err == nil {
		return value.NewFloating(fv)
	}
	return value.NewString(cell)
}

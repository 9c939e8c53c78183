package export

import (
	"errors"

	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

var (
	ErrNoRecords    = errors.New("no records to export")
	ErrNoFields     = errors.New("no fields selected for export")
	ErrUnknownField = errors.New("unknown export field")
)

// Matrix is the resolved row/field grid every output format projects.
// All four formats render the same matrix, so they can never disagree
// on which rows or columns they contain.
type Matrix struct {
	Fields  []Field
	Headers []string
	Rows    [][]string

	records []sewadar.Record
}

// BuildMatrix resolves records against the chosen fields. Empty inputs
// are usage errors and abort before any document work begins.
func BuildMatrix(recs []sewadar.Record, fields []Field) (Matrix, error) {
	if len(recs) == 0 {
		return Matrix{}, ErrNoRecords
	}
	if len(fields) == 0 {
		return Matrix{}, ErrNoFields
	}
	for _, f := range fields {
		if !f.Valid() {
			return Matrix{}, ErrUnknownField
		}
	}

	m := Matrix{
		Fields:  fields,
		Headers: make([]string, len(fields)),
		Rows:    make([][]string, 0, len(recs)),
		records: recs,
	}
	for i, f := range fields {
		m.Headers[i] = f.Label()
	}
	for _, rec := range recs {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f.Value(rec)
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

// Record returns the source record behind row i, for formats that need
// more than the cell strings (image embedding).
func (m Matrix) Record(i int) sewadar.Record {
	return m.records[i]
}

// PictureCol returns the index of the picture column, or -1.
func (m Matrix) PictureCol() int {
	for i, f := range m.Fields {
		if f == FieldPicture {
			return i
		}
	}
	return -1
}

package annotate

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Columns appended to the feature passthrough columns in the output table
var outputColumns = []string{"accession", "hmdb_name", "adduct", "theo_mz"}

// Emitter accumulates matches in encounter order and writes the annotation
// table: every original feature column plus accession, hmdb_name, adduct and
// theo_mz. An empty match set yields a header-only table.
type Emitter struct {
	header  []string
	matches []Match
}

// NewEmitter creates an emitter for a feature table with the given header.
func NewEmitter(featureHeader []string) *Emitter {
	return &Emitter{header: featureHeader}
}

// Add appends matches in the order given.
func (e *Emitter) Add(matches ...Match) {
	e.matches = append(e.matches, matches...)
}

// Len returns the number of accumulated matches.
func (e *Emitter) Len() int {
	return len(e.matches)
}

// Matches returns the accumulated matches in encounter order.
// The slice is owned by the emitter.
func (e *Emitter) Matches() []Match {
	return e.matches
}

// WriteCSV writes the annotation table.
func (e *Emitter) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(e.header)+len(outputColumns))
	header = append(header, e.header...)
	header = append(header, outputColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, m := range e.matches {
		row = row[:0]
		row = append(row, m.Feature.Columns...)
		// Ragged input rows must not shift the appended columns
		if len(row) > len(e.header) {
			row = row[:len(e.header)]
		}
		for len(row) < len(e.header) {
			row = append(row, "")
		}
		row = append(row,
			m.Accession,
			m.Name,
			m.Adduct,
			strconv.FormatFloat(m.TheoMz, 'f', 6, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package hmdb reads HMDB metabolite XML dumps as a lazy stream of records.
//
// HMDB dumps are large (several GB uncompressed), so the whole document is
// never materialized: Next decodes one metabolite element at a time and the
// element is garbage after the record has been consumed.
package hmdb

import "errors"

// Record is one metabolite from the catalog. Accession and MonoisotopicMass
// are always present; everything else is carried through opaquely for
// downstream enrichment and is empty when absent from the dump.
type Record struct {
	Accession        string
	Name             string
	MonoisotopicMass float64

	Formula  string
	SMILES   string
	Class    string
	SubClass string

	// Predicted properties by kind, value as decimal text, e.g.
	// "logp" -> "-2.37"
	Properties map[string]string
}

var (
	// ErrNotOpen is returned when a Reader is used after Close
	ErrNotOpen = errors.New("hmdb: reader is closed")
)

package hmdb

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/net/html/charset"
)

// metabolite mirrors the fields of an HMDB <metabolite> element that we care
// about. Old dumps spell the monoisotopic weight tag without the second "o",
// newer ones spell it correctly, so both are decoded.
type metabolite struct {
	Accession         string `xml:"accession"`
	Name              string `xml:"name"`
	MonoWeight        string `xml:"monoisotopic_molecular_weight"`
	MonoWeightLegacy  string `xml:"monisotopic_molecular_weight"`
	ChemicalFormula   string `xml:"chemical_formula"`
	Smiles            string `xml:"smiles"`
	TaxonomyClass     string `xml:"taxonomy>class"`
	TaxonomySubClass  string `xml:"taxonomy>sub_class"`
	PredictedProperty []struct {
		Kind  string `xml:"kind"`
		Value string `xml:"value"`
	} `xml:"predicted_properties>property"`
}

// record converts the decoded element to a Record. ok is false when the
// mandatory fields (accession, parsable monoisotopic mass) are missing;
// such units are skipped by the reader, they cannot be matched.
func (m *metabolite) record() (Record, bool) {
	acc := strings.TrimSpace(m.Accession)
	if acc == "" {
		return Record{}, false
	}
	monoTxt := m.MonoWeight
	if strings.TrimSpace(monoTxt) == "" {
		monoTxt = m.MonoWeightLegacy
	}
	mono, err := strconv.ParseFloat(strings.TrimSpace(monoTxt), 64)
	if err != nil || mono <= 0 {
		return Record{}, false
	}
	rec := Record{
		Accession:        acc,
		Name:             strings.TrimSpace(m.Name),
		MonoisotopicMass: mono,
		Formula:          strings.TrimSpace(m.ChemicalFormula),
		SMILES:           strings.TrimSpace(m.Smiles),
		Class:            strings.TrimSpace(m.TaxonomyClass),
		SubClass:         strings.TrimSpace(m.TaxonomySubClass),
	}
	if len(m.PredictedProperty) > 0 {
		rec.Properties = make(map[string]string, len(m.PredictedProperty))
		for _, p := range m.PredictedProperty {
			rec.Properties[p.Kind] = p.Value
		}
	}
	return rec, true
}

// Reader streams metabolite records from an HMDB XML dump. It is single-pass
// and non-restartable.
type Reader struct {
	d *xml.Decoder
}

// NewReader returns a streaming reader over an HMDB XML document.
func NewReader(r io.Reader) *Reader {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return &Reader{d: d}
}

// Next returns the next metabolite that has an accession and a parsable
// monoisotopic mass. Units lacking either are skipped, not reported.
// Next returns io.EOF at the end of the catalog; any other error means the
// document is structurally broken and the stream cannot continue.
func (r *Reader) Next() (Record, error) {
	if r.d == nil {
		return Record{}, ErrNotOpen
	}
	for {
		t, err := r.d.Token()
		if err != nil {
			// io.EOF included: end of catalog
			return Record{}, err
		}
		se, ok := t.(xml.StartElement)
		if !ok || se.Name.Local != "metabolite" {
			continue
		}
		var m metabolite
		if err := r.d.DecodeElement(&m, &se); err != nil {
			return Record{}, err
		}
		if rec, ok := m.record(); ok {
			return rec, nil
		}
	}
}

// File is a Reader bound to an opened catalog file.
type File struct {
	*Reader
	closers []io.Closer
}

// Close closes the underlying file (and gzip stream, if any).
func (f *File) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.Reader.d = nil
	return firstErr
}

// Open opens a catalog file for streaming. Files with a .gz extension are
// decompressed on the fly; HMDB distributes its dumps gzipped.
func Open(path string) (*File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f := &File{closers: []io.Closer{osf}}
	var r io.Reader = osf
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zr, err := gzip.NewReader(osf)
		if err != nil {
			osf.Close()
			return nil, err
		}
		// gzip reader closed before the file it wraps
		f.closers = []io.Closer{zr, osf}
		r = zr
	}
	f.Reader = NewReader(r)
	return f, nil
}

package hmdb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
)

const testCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<hmdb xmlns="http://www.hmdb.ca">
<metabolite>
  <accession>HMDB0000122</accession>
  <name>D-Glucose</name>
  <chemical_formula>C6H12O6</chemical_formula>
  <monisotopic_molecular_weight>180.063388</monisotopic_molecular_weight>
  <smiles>OC[C@H]1OC(O)[C@H](O)[C@@H](O)[C@@H]1O</smiles>
  <taxonomy>
    <class>Organooxygen compounds</class>
    <sub_class>Carbohydrates and carbohydrate conjugates</sub_class>
  </taxonomy>
  <predicted_properties>
    <property><kind>logp</kind><value>-2.6</value></property>
    <property><kind>donor_count</kind><value>5</value></property>
  </predicted_properties>
</metabolite>
<metabolite>
  <accession>HMDB0000123</accession>
  <name>Glycine</name>
  <monoisotopic_molecular_weight>75.032028</monoisotopic_molecular_weight>
</metabolite>
<metabolite>
  <accession>HMDB0000124</accession>
  <name>No mass here</name>
</metabolite>
<metabolite>
  <accession>HMDB0000125</accession>
  <name>Garbled mass</name>
  <monisotopic_molecular_weight>not-a-number</monisotopic_molecular_weight>
</metabolite>
<metabolite>
  <name>No accession</name>
  <monisotopic_molecular_weight>100.0</monisotopic_molecular_weight>
</metabolite>
</hmdb>
`

func readAll(t testing.TB, r *Reader) []Record {
	t.Helper()
	var recs []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return recs
		}
		if err != nil {
			t.Fatalf("Next: error return %v", err)
		}
		recs = append(recs, rec)
	}
}

func TestNext(t *testing.T) {
	recs := readAll(t, NewReader(strings.NewReader(testCatalog)))
	if len(recs) != 2 {
		t.Fatalf("Next: %d records, should be 2 (units without mass or accession are skipped)", len(recs))
	}

	want := Record{
		Accession:        "HMDB0000122",
		Name:             "D-Glucose",
		MonoisotopicMass: 180.063388,
		Formula:          "C6H12O6",
		SMILES:           "OC[C@H]1OC(O)[C@H](O)[C@@H](O)[C@@H]1O",
		Class:            "Organooxygen compounds",
		SubClass:         "Carbohydrates and carbohydrate conjugates",
		Properties:       map[string]string{"logp": "-2.6", "donor_count": "5"},
	}
	if diff := cmp.Diff(want, recs[0]); diff != "" {
		t.Errorf("record 0 mismatch (-want +got):\n%s", diff)
	}

	// Both spellings of the mass tag must be accepted
	if recs[1].Accession != "HMDB0000123" || recs[1].MonoisotopicMass != 75.032028 {
		t.Errorf("record 1: %+v, should be HMDB0000123 at 75.032028", recs[1])
	}
}

func TestNextStructuralError(t *testing.T) {
	// Truncated inside an element: structurally broken, must propagate
	broken := testCatalog[:len(testCatalog)/2]
	r := NewReader(strings.NewReader(broken))
	var err error
	for err == nil {
		_, err = r.Next()
	}
	if err == io.EOF {
		t.Errorf("Next: io.EOF on truncated catalog, should be a syntax error")
	}
}

// The reader must be single-pass over a catalog of any length with constant
// state: only the decoder and the record under construction.
func TestNextManyUnits(t *testing.T) {
	const n = 5000
	unit := `<metabolite><accession>HMDB%07d</accession><name>synthetic</name>` +
		`<monisotopic_molecular_weight>180.063388</monisotopic_molecular_weight></metabolite>`
	var sb strings.Builder
	sb.WriteString(`<hmdb xmlns="http://www.hmdb.ca">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, unit, i)
	}
	sb.WriteString(`</hmdb>`)

	r := NewReader(strings.NewReader(sb.String()))
	count := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: error return %v after %d records", err, count)
		}
		if rec.MonoisotopicMass != 180.063388 {
			t.Fatalf("Next: record %d mass %f, should be 180.063388", count, rec.MonoisotopicMass)
		}
		count++
	}
	if count != n {
		t.Errorf("Next: %d records, should be %d", count, n)
	}
}

// syntheticUnit is a minimal metabolite element used for synthetic catalogs
const syntheticUnit = `<metabolite><accession>HMDB0000122</accession><name>synthetic</name>` +
	`<monisotopic_molecular_weight>180.063388</monisotopic_molecular_weight></metabolite>`

// repeatReader streams n copies of unit without ever materializing the
// document, so the input cannot dominate a memory measurement.
type repeatReader struct {
	unit string
	n    int
	off  int
}

func (r *repeatReader) Read(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if r.n == 0 {
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
		k := copy(p, r.unit[r.off:])
		total += k
		p = p[k:]
		r.off += k
		if r.off == len(r.unit) {
			r.off = 0
			r.n--
		}
	}
	return total, nil
}

// syntheticCatalog returns a streaming catalog document of n identical units.
func syntheticCatalog(n int) io.Reader {
	return io.MultiReader(
		strings.NewReader(`<hmdb xmlns="http://www.hmdb.ca">`),
		&repeatReader{unit: syntheticUnit, n: n},
		strings.NewReader(`</hmdb>`),
	)
}

// liveHeapAfterStream drains a synthetic catalog of n units and returns the
// live heap with the reader still reachable.
func liveHeapAfterStream(t *testing.T, n int) uint64 {
	t.Helper()
	r := NewReader(syntheticCatalog(n))
	count := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: error return %v after %d records", err, count)
		}
		count++
	}
	if count != n {
		t.Fatalf("Next: %d records, should be %d", count, n)
	}
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	runtime.KeepAlive(r)
	return m.HeapAlloc
}

// Peak memory must not depend on catalog length. A reader that materialized
// the document or retained the emitted records would hold O(catalog) heap
// here; the streaming reader holds only the decoder and one unit.
func TestNextConstantMemory(t *testing.T) {
	base := liveHeapAfterStream(t, 2000)
	big := liveHeapAfterStream(t, 20000)
	const slack = 1 << 20 // GC measurement noise
	if big > base+slack {
		t.Errorf("live heap grew with catalog size: %d bytes after 2000 units, %d bytes after 20000",
			base, big)
	}
}

func TestOpenGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.xml.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(testCatalog)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	f.Close()

	catalog, err := Open(path)
	if err != nil {
		t.Fatalf("Open: error return %v", err)
	}
	recs := readAll(t, catalog.Reader)
	if err := catalog.Close(); err != nil {
		t.Errorf("Close: error return %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Open: %d records, should be 2", len(recs))
	}
	if _, err := catalog.Next(); err != ErrNotOpen {
		t.Errorf("Next after Close: error return %v, should be ErrNotOpen", err)
	}
}

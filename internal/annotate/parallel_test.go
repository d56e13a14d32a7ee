package annotate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/omicsdb/mzannotate/internal/hmdb"
)

// catalogXML serializes records as a minimal HMDB document so that the run
// functions can be exercised through a real catalog stream.
func catalogXML(recs []hmdb.Record) string {
	var sb strings.Builder
	sb.WriteString(`<hmdb xmlns="http://www.hmdb.ca">`)
	for _, rec := range recs {
		fmt.Fprintf(&sb,
			`<metabolite><accession>%s</accession><name>%s</name>`+
				`<monisotopic_molecular_weight>%.9f</monisotopic_molecular_weight></metabolite>`,
			rec.Accession, rec.Name, rec.MonoisotopicMass)
	}
	sb.WriteString(`</hmdb>`)
	return sb.String()
}

func TestRunParallel(t *testing.T) {
	recs, feats := randomInput(7, 400, 40)
	doc := catalogXML(recs)
	const ppm = 5.0
	strat := NewWindowIndex(feats, ppm)

	seqEm := NewEmitter(testHeader)
	nSeq, err := Run(hmdb.NewReader(strings.NewReader(doc)), strat, seqEm)
	if err != nil {
		t.Fatalf("Run: error return %v", err)
	}
	if nSeq != len(recs) {
		t.Errorf("Run: %d records, should be %d", nSeq, len(recs))
	}

	for _, workers := range []int{1, 4} {
		parEm := NewEmitter(testHeader)
		nPar, err := RunParallel(context.Background(),
			hmdb.NewReader(strings.NewReader(doc)), strat, workers, parEm)
		if err != nil {
			t.Fatalf("RunParallel(%d): error return %v", workers, err)
		}
		if nPar != nSeq {
			t.Errorf("RunParallel(%d): %d records, should be %d", workers, nPar, nSeq)
		}
		// Merge order is unspecified, compare as unordered multisets
		if diff := cmp.Diff(matchKeys(seqEm.Matches()), matchKeys(parEm.Matches())); diff != "" {
			t.Errorf("RunParallel(%d) match set differs from Run (-seq +par):\n%s", workers, diff)
		}
	}
}

func TestRunStructuralError(t *testing.T) {
	recs, feats := randomInput(7, 10, 5)
	doc := catalogXML(recs)
	broken := doc[:len(doc)-20]

	em := NewEmitter(testHeader)
	_, err := Run(hmdb.NewReader(strings.NewReader(broken)), NewWindowIndex(feats, 5.0), em)
	if err == nil {
		t.Errorf("Run: no error on structurally broken catalog")
	}
}

package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omicsdb/mzannotate/internal/hmdb"
)

// Predicted property kinds appended by the enrich command, in output order.
// Count kinds carry whole numbers in the catalog and are validated as such.
var enrichProps = []struct {
	kind    string
	integer bool
}{
	{"logp", false},
	{"logs", false},
	{"polar_surface_area", false},
	{"donor_count", true},
	{"acceptor_count", true},
	{"rotatable_bond_count", true},
}

// propertyValue returns the catalog value for a property kind, or empty if the
// value is absent or fails the per-kind numeric check.
func propertyValue(rec hmdb.Record, kind string, integer bool) string {
	v, ok := rec.Properties[kind]
	if !ok {
		return ""
	}
	v = strings.TrimSpace(v)
	if integer {
		if _, err := strconv.Atoi(v); err != nil {
			return ""
		}
	} else if _, err := strconv.ParseFloat(v, 64); err != nil {
		return ""
	}
	return v
}

var errNoAccessionColumn = errors.New("no accession column in input table")

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Append predicted compound properties to an annotation table",
	Long: `Enrich streams the catalog once and appends the predicted physicochemical
properties (logp, logs, polar surface area, donor/acceptor/rotatable bond
counts) of each annotated compound to the table. Properties missing from the
catalog are left empty.

Example:
  mzannotate enrich -i candidates.csv -c hmdb_metabolites.xml.gz -o candidates_props.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cols := make([]string, len(enrichProps))
		for i, p := range enrichProps {
			cols[i] = p.kind
		}
		return appendCatalogColumns(cols, func(rec hmdb.Record) []string {
			vals := make([]string, len(enrichProps))
			for i, p := range enrichProps {
				vals[i] = propertyValue(rec, p.kind, p.integer)
			}
			return vals
		})
	},
}

// appendCatalogColumns implements the shared join shape of enrich and expand:
// read the annotation table, stream the catalog collecting the extract values
// for the accessions that actually occur in the table, and write the table
// back with the new columns appended. Accessions absent from the catalog get
// empty cells.
func appendCatalogColumns(newCols []string, extract func(hmdb.Record) []string) error {
	in, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read input %s: %w", inFile, err)
	}
	accIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "accession" {
			accIdx = i
		}
	}
	if accIdx < 0 {
		return fmt.Errorf("input %s: %w", inFile, errNoAccessionColumn)
	}

	var rows [][]string
	wanted := make(map[string][]string)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read input %s: %w", inFile, err)
		}
		rows = append(rows, row)
		if accIdx < len(row) {
			wanted[row[accIdx]] = nil
		}
	}

	// One streaming pass over the catalog; only accessions present in the
	// input table are retained.
	catalog, err := hmdb.Open(catalogFile)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalog.Close()
	for {
		rec, err := catalog.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("catalog %s: %w", catalogFile, err)
		}
		if _, ok := wanted[rec.Accession]; ok {
			wanted[rec.Accession] = extract(rec)
		}
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	cw := csv.NewWriter(out)
	if err := cw.Write(append(append([]string{}, header...), newCols...)); err != nil {
		return err
	}
	empty := make([]string, len(newCols))
	for _, row := range rows {
		vals := empty
		if accIdx < len(row) {
			if v := wanted[row[accIdx]]; v != nil {
				vals = v
			}
		}
		if err := cw.Write(append(append([]string{}, row...), vals...)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), outFile)
	return nil
}

package cmd

import (
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/omicsdb/mzannotate/internal/formula"
	"github.com/omicsdb/mzannotate/internal/hmdb"
)

// Columns appended by the expand command, in output order
var expandCols = []string{
	"formula", "smiles", "chem_class", "chem_sub_class",
	"C", "H", "N", "O", "P", "S",
	"H_C_ratio", "heteroatom_count",
}

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Append formula and taxonomy descriptors to an annotation table",
	Long: `Expand streams the catalog once and appends the chemical formula, SMILES,
taxonomy class/sub-class and formula-derived descriptors (elemental counts,
H/C ratio, heteroatom count) of each annotated compound to the table.

Example:
  mzannotate expand -i candidates_props.csv -c hmdb_metabolites.xml.gz -o candidates_extended.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return appendCatalogColumns(expandCols, func(rec hmdb.Record) []string {
			c := formula.Parse(rec.Formula)
			hc := ""
			if r := c.HCRatio(); !math.IsNaN(r) {
				hc = strconv.FormatFloat(r, 'f', 4, 64)
			}
			return []string{
				rec.Formula, rec.SMILES, rec.Class, rec.SubClass,
				strconv.Itoa(c.C), strconv.Itoa(c.H), strconv.Itoa(c.N),
				strconv.Itoa(c.O), strconv.Itoa(c.P), strconv.Itoa(c.S),
				hc, strconv.Itoa(c.Heteroatoms()),
			}
		})
	},
}

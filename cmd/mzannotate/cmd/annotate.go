package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/omicsdb/mzannotate/internal/annotate"
	"github.com/omicsdb/mzannotate/internal/feature"
	"github.com/omicsdb/mzannotate/internal/hmdb"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate a feature list against the metabolite catalog",
	Long: `Annotate matches each feature (observed m/z, ionization mode) against every
catalog compound under every polarity-compatible adduct. A candidate is kept
when its theoretical m/z lies within the ppm window around the observed m/z.

Examples:
  # Annotate with default 5 ppm tolerance
  mzannotate annotate -f sig_met_list.txt -c hmdb_metabolites.xml.gz -o candidates.csv

  # Tight 2 ppm window, 8 matcher goroutines
  mzannotate annotate -f sig_met_list.txt -c hmdb_metabolites.xml -o candidates.csv --ppm 2 --workers 8`,
	RunE: runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ff, err := os.Open(featureFile)
	if err != nil {
		return fmt.Errorf("open feature list: %w", err)
	}
	defer ff.Close()
	feats, err := feature.ReadTSV(ff)
	if err != nil {
		return fmt.Errorf("read feature list %s: %w", featureFile, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Features: %d usable, %d skipped\n",
			len(feats.Features), feats.Skipped)
	}

	var strat annotate.Strategy
	switch strategy {
	case "brute":
		strat = annotate.NewBruteForce(feats.Features, ppm)
	case "sorted":
		strat = annotate.NewWindowIndex(feats.Features, ppm)
	case "auto":
		strat = annotate.NewStrategy(feats.Features, ppm)
	default:
		return fmt.Errorf("invalid strategy %q, must be auto, brute or sorted", strategy)
	}

	catalog, err := hmdb.Open(catalogFile)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalog.Close()

	em := annotate.NewEmitter(feats.Header)

	t := time.Now()
	if verbose {
		fmt.Fprintf(os.Stderr, "Matching against %s: ", catalogFile)
	}
	n, err := annotate.RunParallel(context.Background(), catalog.Reader, strat, workers, em)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", catalogFile, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		fmt.Fprintf(os.Stderr, "Catalog records: %d\n", n)
		sum := annotate.Summarize(em.Matches())
		fmt.Fprintf(os.Stderr,
			"Matches: %d  mass error ppm mean %.3f median %.3f max abs %.3f\n",
			sum.Matches, sum.MeanPPM, sum.MedianPPM, sum.MaxAbsPPM)
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	if err := em.WriteCSV(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Wrote %d candidate annotations to %s\n", em.Len(), outFile)
	return nil
}

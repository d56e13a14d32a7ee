// Package cmd provides the CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Shared flags
	catalogFile string
	outFile     string

	// Annotate flags
	featureFile string
	ppm         float64
	strategy    string
	workers     int
	verbose     bool

	// Enrich/expand flags
	inFile string
)

var rootCmd = &cobra.Command{
	Use:   "mzannotate",
	Short: "mzannotate - metabolite annotation of LC-MS feature lists",
	Long: `mzannotate matches observed m/z features against the HMDB metabolite
catalog under common ESI adduct hypotheses, within a ppm tolerance window.

The catalog XML dump is stream-parsed, so arbitrarily large dumps are
processed in constant memory. Plain and gzipped dumps are accepted.`,
	Version: "1.0.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(expandCmd)

	annotateCmd.Flags().StringVarP(&featureFile, "features", "f", "", "Tab-separated feature list with m/z and mode columns (required)")
	annotateCmd.Flags().StringVarP(&catalogFile, "catalog", "c", "", "HMDB metabolite XML dump, optionally gzipped (required)")
	annotateCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output CSV of annotation candidates (required)")
	annotateCmd.Flags().Float64Var(&ppm, "ppm", 5.0, "Mass tolerance in ppm of the observed m/z")
	annotateCmd.Flags().StringVar(&strategy, "strategy", "auto", "Matching strategy: auto, brute or sorted")
	annotateCmd.Flags().IntVar(&workers, "workers", 1, "Number of matcher goroutines (1 = synchronous)")
	annotateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress and mass error summary to stderr")
	annotateCmd.MarkFlagRequired("features")
	annotateCmd.MarkFlagRequired("catalog")
	annotateCmd.MarkFlagRequired("out")

	for _, c := range []*cobra.Command{enrichCmd, expandCmd} {
		c.Flags().StringVarP(&inFile, "in", "i", "", "Annotation CSV with an accession column (required)")
		c.Flags().StringVarP(&catalogFile, "catalog", "c", "", "HMDB metabolite XML dump, optionally gzipped (required)")
		c.Flags().StringVarP(&outFile, "out", "o", "", "Output CSV (required)")
		c.MarkFlagRequired("in")
		c.MarkFlagRequired("catalog")
		c.MarkFlagRequired("out")
	}
}

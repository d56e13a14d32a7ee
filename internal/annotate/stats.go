package annotate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the mass error distribution of a finished run. Errors are
// theoretical minus observed m/z, relative, in ppm.
type Summary struct {
	Matches   int
	MeanPPM   float64
	MedianPPM float64
	MaxAbsPPM float64
}

// Summarize computes the ppm error summary over the accumulated matches.
// The zero Summary is returned for an empty match set.
func Summarize(matches []Match) Summary {
	var s Summary
	s.Matches = len(matches)
	if len(matches) == 0 {
		return s
	}
	errs := make([]float64, len(matches))
	for i, m := range matches {
		e := (m.TheoMz - m.Feature.Mz) / m.Feature.Mz * 1e6
		errs[i] = e
		if math.Abs(e) > s.MaxAbsPPM {
			s.MaxAbsPPM = math.Abs(e)
		}
	}
	s.MeanPPM = stat.Mean(errs, nil)
	sort.Float64s(errs)
	s.MedianPPM = stat.Quantile(0.5, stat.Empirical, errs, nil)
	return s
}

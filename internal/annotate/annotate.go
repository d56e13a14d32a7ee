// Package annotate joins adduct-expanded catalog masses against feature
// tolerance windows and materializes the resulting annotation table.
package annotate

import (
	"io"
	"sort"

	"github.com/omicsdb/mzannotate/internal/adduct"
	"github.com/omicsdb/mzannotate/internal/feature"
	"github.com/omicsdb/mzannotate/internal/hmdb"
)

// Match is one (feature, catalog entry, adduct) annotation candidate.
type Match struct {
	Feature   feature.Feature
	Accession string
	Name      string
	Adduct    string
	TheoMz    float64
}

// Strategy finds all features whose tolerance window contains a theoretical
// m/z of the given compound under a polarity-compatible adduct. Strategies
// are read-only after construction and safe for concurrent use.
//
// All strategies produce the same match set; they differ only in cost.
type Strategy interface {
	Annotate(rec hmdb.Record) []Match
}

// BruteForce tests every (feature, adduct) pair per compound. Cost is
// O(adducts * features) per record, fine for small feature lists.
type BruteForce struct {
	feats   []feature.Feature
	windows []feature.Window
}

// NewBruteForce builds the brute force strategy for a fixed ppm tolerance.
func NewBruteForce(feats []feature.Feature, ppm float64) *BruteForce {
	b := &BruteForce{
		feats:   feats,
		windows: make([]feature.Window, len(feats)),
	}
	for i, f := range feats {
		b.windows[i] = f.Window(ppm)
	}
	return b
}

// Annotate implements Strategy.
func (b *BruteForce) Annotate(rec hmdb.Record) []Match {
	var matches []Match
	for i, f := range b.feats {
		for _, a := range adduct.ByPolarity(f.Polarity) {
			theo := a.TheoreticalMz(rec.MonoisotopicMass)
			if b.windows[i].Contains(theo) {
				matches = append(matches, Match{
					Feature:   f,
					Accession: rec.Accession,
					Name:      rec.Name,
					Adduct:    a.Label,
					TheoMz:    theo,
				})
			}
		}
	}
	return matches
}

// windowEntry pairs a feature with its precomputed tolerance window.
type windowEntry struct {
	feat feature.Feature
	win  feature.Window
}

// WindowIndex keeps the features of each polarity sorted by m/z so that the
// candidates for a probe mass can be found by binary search. Window width is
// linear in m/z, so sorting by m/z also sorts both window bounds; the
// features matching a probe therefore form one contiguous run.
// Per-probe cost is O(log features + matches).
type WindowIndex struct {
	byPol [2][]windowEntry
}

// NewWindowIndex builds the sorted window index for a fixed ppm tolerance.
func NewWindowIndex(feats []feature.Feature, ppm float64) *WindowIndex {
	idx := &WindowIndex{}
	for _, f := range feats {
		idx.byPol[f.Polarity] = append(idx.byPol[f.Polarity],
			windowEntry{feat: f, win: f.Window(ppm)})
	}
	for p := range idx.byPol {
		entries := idx.byPol[p]
		sort.SliceStable(entries,
			func(i, j int) bool { return entries[i].feat.Mz < entries[j].feat.Mz })
	}
	return idx
}

// Annotate implements Strategy.
func (x *WindowIndex) Annotate(rec hmdb.Record) []Match {
	var matches []Match
	for _, pol := range []adduct.Polarity{adduct.Positive, adduct.Negative} {
		entries := x.byPol[pol]
		if len(entries) == 0 {
			continue
		}
		for _, a := range adduct.ByPolarity(pol) {
			theo := a.TheoreticalMz(rec.MonoisotopicMass)
			// Find the full contiguous run of windows containing theo.
			// Both bounds ascend with m/z, so the run is [i1, i2).
			i1 := sort.Search(len(entries),
				func(i int) bool { return entries[i].win.Hi >= theo })
			i2 := sort.Search(len(entries),
				func(i int) bool { return entries[i].win.Lo > theo })
			for i := i1; i < i2; i++ {
				matches = append(matches, Match{
					Feature:   entries[i].feat,
					Accession: rec.Accession,
					Name:      rec.Name,
					Adduct:    a.Label,
					TheoMz:    theo,
				})
			}
		}
	}
	return matches
}

// NewStrategy picks a strategy for the expected scale: brute force for tiny
// feature lists, the sorted index otherwise.
func NewStrategy(feats []feature.Feature, ppm float64) Strategy {
	if len(feats) < 16 {
		return NewBruteForce(feats, ppm)
	}
	return NewWindowIndex(feats, ppm)
}

// Run drives the synchronous pipeline: it drains the catalog stream, applies
// the strategy to each record and collects the matches into the emitter.
// It returns the number of catalog records consumed.
func Run(r *hmdb.Reader, s Strategy, em *Emitter) (int, error) {
	n := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
		em.Add(s.Annotate(rec)...)
	}
}

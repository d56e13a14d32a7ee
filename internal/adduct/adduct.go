// Package adduct holds the fixed registry of ionization adducts used for
// annotating observed m/z values against neutral monoisotopic masses.
package adduct

import (
	"errors"
	"strings"
)

// Polarity is the ionization mode of an adduct or a measured feature.
type Polarity int

const (
	// Positive is ESI+ mode
	Positive Polarity = iota
	// Negative is ESI- mode
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "neg"
	}
	return "pos"
}

// ErrUnknownMode is returned when a mode string cannot be mapped to a polarity
var ErrUnknownMode = errors.New("adduct: unknown ionization mode")

// ParseMode maps a feature list mode string to a polarity. Only the first
// underscore-separated token is significant, case is ignored, e.g.
// "POS_HILIC_late" parses as Positive.
func ParseMode(mode string) (Polarity, error) {
	tok, _, _ := strings.Cut(mode, "_")
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "pos":
		return Positive, nil
	case "neg":
		return Negative, nil
	}
	return 0, ErrUnknownMode
}

// Adduct is a single mass transformation hypothesis. The theoretical m/z of a
// compound observed as this adduct is multiplier*monoisotopicMass + delta.
type Adduct struct {
	Label    string
	Polarity Polarity

	multiplier float64
	delta      float64
}

// TheoreticalMz returns the m/z at which a compound with the given neutral
// monoisotopic mass is expected to be observed as this adduct.
func (a Adduct) TheoreticalMz(mono float64) float64 {
	return a.multiplier*mono + a.delta
}

// Singly-charged adduct mass offsets in Da
var monomers = []Adduct{
	{Label: `[M+H]+`, Polarity: Positive, multiplier: 1, delta: 1.007276},
	{Label: `[M+Na]+`, Polarity: Positive, multiplier: 1, delta: 22.989218},
	{Label: `[M+K]+`, Polarity: Positive, multiplier: 1, delta: 38.963158},
	{Label: `[M+NH4]+`, Polarity: Positive, multiplier: 1, delta: 18.033823},
	{Label: `[M+Li]+`, Polarity: Positive, multiplier: 1, delta: 7.015455},
	{Label: `[M+Cs]+`, Polarity: Positive, multiplier: 1, delta: 132.905452},
	{Label: `[M-H]-`, Polarity: Negative, multiplier: 1, delta: -1.007276},
	{Label: `[M+HCOO]-`, Polarity: Negative, multiplier: 1, delta: 44.998201},
	{Label: `[M+Cl]-`, Polarity: Negative, multiplier: 1, delta: 34.969402},
}

// The 2M multimers take their offset from the monomer counterpart, so that
// the two can never drift apart.
var multimers = []struct{ label, base string }{
	{`[2M+H]+`, `[M+H]+`},
	{`[2M+Na]+`, `[M+Na]+`},
	{`[2M-H]-`, `[M-H]-`},
}

var (
	registry  []Adduct
	byLabel   map[string]Adduct
	positives []Adduct
	negatives []Adduct
)

func init() {
	registry = make([]Adduct, 0, len(monomers)+len(multimers))
	byLabel = make(map[string]Adduct, len(monomers)+len(multimers))
	registry = append(registry, monomers...)
	for _, a := range monomers {
		byLabel[a.Label] = a
	}
	for _, m := range multimers {
		base, ok := byLabel[m.base]
		if !ok {
			panic("adduct: multimer " + m.label + " has no monomer " + m.base)
		}
		a := Adduct{
			Label:      m.label,
			Polarity:   base.Polarity,
			multiplier: 2,
			delta:      base.delta,
		}
		registry = append(registry, a)
		byLabel[a.Label] = a
	}
	for _, a := range registry {
		if a.Polarity == Positive {
			positives = append(positives, a)
		} else {
			negatives = append(negatives, a)
		}
	}
}

// All returns every adduct in the registry, in registration order.
func All() []Adduct {
	return registry
}

// ByPolarity returns the adducts compatible with the given ionization mode.
// The returned slice is shared and must not be modified.
func ByPolarity(p Polarity) []Adduct {
	if p == Negative {
		return negatives
	}
	return positives
}

// Lookup returns the adduct with the given label.
func Lookup(label string) (Adduct, bool) {
	a, ok := byLabel[label]
	return a, ok
}

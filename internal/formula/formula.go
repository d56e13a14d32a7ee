// Package formula derives elemental descriptors from chemical formula
// strings such as "C6H12O6".
package formula

import (
	"math"
	"regexp"
	"strconv"
)

// Counts holds the atom counts of the elements used as descriptors.
// Elements outside this set are ignored.
type Counts struct {
	C int
	H int
	N int
	O int
	P int
	S int
}

var elemRe = regexp.MustCompile(`([A-Z][a-z]?)(\d*)`)

// Parse extracts element counts from a formula string. A missing count means
// one atom ("CH4" is C1 H4). Unknown or two-letter elements (Na, Cl, ...)
// are skipped. An empty or garbled formula yields zero counts.
func Parse(formula string) Counts {
	var c Counts
	for _, m := range elemRe.FindAllStringSubmatch(formula, -1) {
		n := 1
		if m[2] != "" {
			var err error
			n, err = strconv.Atoi(m[2])
			if err != nil {
				continue
			}
		}
		switch m[1] {
		case "C":
			c.C += n
		case "H":
			c.H += n
		case "N":
			c.N += n
		case "O":
			c.O += n
		case "P":
			c.P += n
		case "S":
			c.S += n
		}
	}
	return c
}

// HCRatio returns hydrogen over carbon, or NaN when there is no carbon.
func (c Counts) HCRatio() float64 {
	if c.C == 0 {
		return math.NaN()
	}
	return float64(c.H) / float64(c.C)
}

// Heteroatoms returns the count of N, O, P and S atoms.
func (c Counts) Heteroatoms() int {
	return c.N + c.O + c.P + c.S
}

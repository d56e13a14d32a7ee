// Package feature loads the measured feature list that annotation candidates
// are matched against. Feature lists are small (hundreds to a few thousand
// rows) and are held fully in memory, unlike the catalog.
package feature

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/omicsdb/mzannotate/internal/adduct"
)

// Feature is one observed measurement awaiting identification. Columns holds
// every cell of the original row verbatim, so output rows can reproduce the
// input table unchanged.
type Feature struct {
	Mz       float64
	Polarity adduct.Polarity
	Columns  []string
}

// Window is the ppm tolerance interval around an observed m/z.
// Lo <= Mz <= Hi always holds; both bounds are inclusive when matching.
type Window struct {
	Lo float64
	Hi float64
}

// Window returns the tolerance interval for the feature at the given ppm.
func (f Feature) Window(ppm float64) Window {
	tol := f.Mz * ppm / 1e6
	return Window{Lo: f.Mz - tol, Hi: f.Mz + tol}
}

// Contains reports whether mz lies inside the window, bounds included.
func (w Window) Contains(mz float64) bool {
	return mz >= w.Lo && mz <= w.Hi
}

// List is a loaded feature table.
type List struct {
	Header   []string
	Features []Feature
	// Skipped counts input rows dropped for a bad m/z or mode value
	Skipped int
}

var (
	// ErrNoMzColumn means the feature table has no m/z column
	ErrNoMzColumn = errors.New("feature: no m/z column in header")
	// ErrNoModeColumn means the feature table has no mode column
	ErrNoModeColumn = errors.New("feature: no mode column in header")
	// ErrEmptyTable means the feature table has no header row
	ErrEmptyTable = errors.New("feature: empty table")
)

// ReadTSV reads a tab-separated feature table. The header must contain "m/z"
// and "mode" columns (names are whitespace-trimmed). Rows whose m/z does not
// parse or whose mode does not normalize to pos/neg are skipped, not failed.
func ReadTSV(r io.Reader) (List, error) {
	var list List

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return list, ErrEmptyTable
	}
	if err != nil {
		return list, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	list.Header = header

	mzIdx, modeIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(name) {
		case "m/z":
			mzIdx = i
		case "mode":
			modeIdx = i
		}
	}
	if mzIdx < 0 {
		return list, ErrNoMzColumn
	}
	if modeIdx < 0 {
		return list, ErrNoModeColumn
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return list, err
		}
		if mzIdx >= len(row) || modeIdx >= len(row) {
			list.Skipped++
			continue
		}
		mz, err := strconv.ParseFloat(strings.TrimSpace(row[mzIdx]), 64)
		if err != nil || mz <= 0 {
			list.Skipped++
			continue
		}
		pol, err := adduct.ParseMode(row[modeIdx])
		if err != nil {
			list.Skipped++
			continue
		}
		list.Features = append(list.Features, Feature{
			Mz:       mz,
			Polarity: pol,
			Columns:  row,
		})
	}
	return list, nil
}

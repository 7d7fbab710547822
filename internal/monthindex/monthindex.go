// Package monthindex maps slider positions to calendar months.
package monthindex

import (
	"errors"
	"fmt"
	"time"
)

// LabelLayout formats a month as "Mar, 2006".
const LabelLayout = "Jan, 2006"

var (
	// ErrOutOfRange is returned for positions outside the index.
	ErrOutOfRange = errors.New("month position out of range")
	// ErrInverted is returned when a range starts after it ends.
	ErrInverted = errors.New("range start after end")
)

// Index is an immutable, chronological list of first-of-month dates.
type Index struct {
	months []time.Time
}

// New builds the index for every month of every year in [startYear, endYear].
func New(startYear, endYear int) (*Index, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("years %d..%d: %w", startYear, endYear, ErrInverted)
	}
	months := make([]time.Time, 0, (endYear-startYear+1)*12)
	for y := startYear; y <= endYear; y++ {
		for m := time.January; m <= time.December; m++ {
			months = append(months, time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
		}
	}
	return &Index{months: months}, nil
}

// Len returns the number of positions.
func (x *Index) Len() int { return len(x.months) }

// First returns the earliest month.
func (x *Index) First() time.Time { return x.months[0] }

// Last returns the latest month.
func (x *Index) Last() time.Time { return x.months[len(x.months)-1] }

// Resolve returns the month at pos.
func (x *Index) Resolve(pos int) (time.Time, error) {
	if pos < 0 || pos >= len(x.months) {
		return time.Time{}, fmt.Errorf("position %d (len %d): %w", pos, len(x.months), ErrOutOfRange)
	}
	return x.months[pos], nil
}

// Range resolves both ends of an inclusive position range.
func (x *Index) Range(start, end int) (from, to time.Time, err error) {
	if from, err = x.Resolve(start); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to, err = x.Resolve(end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("positions %d..%d: %w", start, end, ErrInverted)
	}
	return from, to, nil
}

// Label formats the month at pos.
func (x *Index) Label(pos int) (string, error) {
	t, err := x.Resolve(pos)
	if err != nil {
		return "", err
	}
	return t.Format(LabelLayout), nil
}

// RangeLabel formats a range as "Jan, 2010 - Dec, 2016".
func (x *Index) RangeLabel(start, end int) (string, error) {
	from, to, err := x.Range(start, end)
	if err != nil {
		return "", err
	}
	return FormatRange(from, to), nil
}

// FormatRange formats two months as a range label.
func FormatRange(from, to time.Time) string {
	return from.Format(LabelLayout) + " - " + to.Format(LabelLayout)
}

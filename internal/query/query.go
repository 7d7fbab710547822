// Package query selects the events matching a dashboard filter.
package query

import (
	"fmt"

	"github.com/intelligrit/gtd-map/internal/dataset"
	"github.com/intelligrit/gtd-map/internal/model"
	"github.com/intelligrit/gtd-map/internal/monthindex"
)

// ErrInverted is returned for ranges whose start lies after their end.
var ErrInverted = monthindex.ErrInverted

// Mode picks which entity sets a selector matches on.
type Mode int

const (
	// ModePlace matches province OR city membership.
	ModePlace Mode = iota
	// ModeActor matches actor membership only.
	ModeActor
)

// Selector is one query from the country page. Start and End are inclusive
// month index positions.
type Selector struct {
	Mode      Mode
	Country   string
	Provinces []string
	Cities    []string
	Actors    []string
	Start     int
	End       int
}

// Select returns the events of sel.Country dated within the selected months
// that belong to one of the selected entities. An empty country or empty
// entity sets select nothing. The result is never nil.
func Select(ds *dataset.Dataset, idx *monthindex.Index, sel Selector) ([]model.Event, error) {
	from, to, err := idx.Range(sel.Start, sel.End)
	if err != nil {
		return nil, err
	}

	out := []model.Event{}
	if sel.Country == "" {
		return out, nil
	}

	var match func(model.Event) bool
	switch sel.Mode {
	case ModePlace:
		provinces, cities := toSet(sel.Provinces), toSet(sel.Cities)
		if len(provinces) == 0 && len(cities) == 0 {
			return out, nil
		}
		match = func(e model.Event) bool {
			return (e.Province.Valid && provinces[e.Province.Value]) ||
				(e.City.Valid && cities[e.City.Value])
		}
	case ModeActor:
		actors := toSet(sel.Actors)
		if len(actors) == 0 {
			return out, nil
		}
		match = func(e model.Event) bool { return actors[e.Actor] }
	default:
		return nil, fmt.Errorf("unknown selector mode %d", sel.Mode)
	}

	for e := range ds.Events() {
		if e.Country != sel.Country {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SelectCountries returns the events of the given countries with a year in
// [fromYear, toYear].
func SelectCountries(ds *dataset.Dataset, countries []string, fromYear, toYear int) ([]model.Event, error) {
	if fromYear > toYear {
		return nil, fmt.Errorf("years %d..%d: %w", fromYear, toYear, ErrInverted)
	}
	out := []model.Event{}
	set := toSet(countries)
	if len(set) == 0 {
		return out, nil
	}
	for e := range ds.Events() {
		if set[e.Country] && e.Year >= fromYear && e.Year <= toYear {
			out = append(out, e)
		}
	}
	return out, nil
}

// SelectYears returns every event with a year in [fromYear, toYear].
func SelectYears(ds *dataset.Dataset, fromYear, toYear int) ([]model.Event, error) {
	if fromYear > toYear {
		return nil, fmt.Errorf("years %d..%d: %w", fromYear, toYear, ErrInverted)
	}
	out := []model.Event{}
	for e := range ds.Events() {
		if e.Year >= fromYear && e.Year <= toYear {
			out = append(out, e)
		}
	}
	return out, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}

// Package options lists the values available to the dependent dropdowns.
package options

import (
	"sort"

	"github.com/intelligrit/gtd-map/internal/dataset"
	"github.com/intelligrit/gtd-map/internal/model"
)

// For returns the sorted distinct values of field among the country's events.
// Missing values are skipped. The result is empty, never nil, when country is
// empty or unknown.
func For(ds *dataset.Dataset, country string, field model.Field) []string {
	out := []string{}
	if country == "" {
		return out
	}

	seen := make(map[string]bool)
	for e := range ds.Events() {
		if e.Country != country {
			continue
		}
		v, ok := e.Field(field)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Countries returns every country in the dataset, sorted.
func Countries(ds *dataset.Dataset) []string {
	return ds.Countries()
}

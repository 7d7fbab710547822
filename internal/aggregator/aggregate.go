// Package aggregator groups selected events into yearly series and rankings.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/intelligrit/gtd-map/internal/model"
)

// DefaultRankLimit is how many entities a ranking keeps, and the most it
// ever keeps.
const DefaultRankLimit = 20

// Key identifies one (year, entity) group.
type Key struct {
	Year   int
	Entity string
}

// Metric is what a ranking orders by.
type Metric string

const (
	// MetricCount ranks by number of attacks.
	MetricCount Metric = "count"
	// MetricSeverity ranks by total deaths.
	MetricSeverity Metric = "severity"
)

// ParseMetric accepts the API spellings of a metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "count", "attacks", "":
		return MetricCount, nil
	case "severity", "deaths", "kills":
		return MetricSeverity, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// CountByYearAndEntity counts events per (year, field value). Events missing
// the field are skipped.
func CountByYearAndEntity(events []model.Event, field model.Field) map[Key]int {
	counts := make(map[Key]int)
	for _, e := range events {
		v, ok := e.Field(field)
		if !ok {
			continue
		}
		counts[Key{Year: e.Year, Entity: v}]++
	}
	return counts
}

// Series builds one yearly series per requested entity, in request order.
// Entities without events still get a series, with no points.
func Series(events []model.Event, field model.Field, entities []string) []model.BarSeries {
	counts := CountByYearAndEntity(events, field)

	byEntity := make(map[string][]model.YearCount)
	for k, n := range counts {
		byEntity[k.Entity] = append(byEntity[k.Entity], model.YearCount{Year: k.Year, Count: n})
	}

	series := make([]model.BarSeries, 0, len(entities))
	for _, name := range entities {
		pts := append([]model.YearCount{}, byEntity[name]...)
		sort.Slice(pts, func(i, j int) bool { return pts[i].Year < pts[j].Year })
		series = append(series, model.BarSeries{Name: name, Points: pts})
	}
	return series
}

// RankEntities returns the top limit entities by metric, ascending, so the
// largest comes last. Count is the number of events and Sum the total kills
// with missing values counted as zero. Equal values are ordered by label.
// A limit outside 1..DefaultRankLimit means DefaultRankLimit.
func RankEntities(events []model.Event, field model.Field, metric Metric, limit int) []model.RankEntry {
	if limit <= 0 || limit > DefaultRankLimit {
		limit = DefaultRankLimit
	}

	groups := make(map[string]*model.RankEntry)
	for _, e := range events {
		v, ok := e.Field(field)
		if !ok {
			continue
		}
		g, ok := groups[v]
		if !ok {
			g = &model.RankEntry{Label: v}
			groups[v] = g
		}
		g.Count++
		g.Sum += e.Kills.Or(0)
	}

	ranked := make([]model.RankEntry, 0, len(groups))
	for _, g := range groups {
		if metric == MetricSeverity {
			g.Value = g.Sum
		} else {
			g.Value = float64(g.Count)
		}
		ranked = append(ranked, *g)
	}

	// Highest first to pick the survivors, lower label wins among equals.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Label < ranked[j].Label
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value < ranked[j].Value
		}
		return ranked[i].Label < ranked[j].Label
	})
	return ranked
}

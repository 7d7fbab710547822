// Package dashboard turns filter selections into the chart payloads the
// front end renders: map series with hover text, yearly bars and rankings.
package dashboard

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/intelligrit/gtd-map/internal/aggregator"
	"github.com/intelligrit/gtd-map/internal/dataset"
	"github.com/intelligrit/gtd-map/internal/geo"
	"github.com/intelligrit/gtd-map/internal/model"
	"github.com/intelligrit/gtd-map/internal/monthindex"
	"github.com/intelligrit/gtd-map/internal/query"
)

// mapPadding is added around located points when computing map bounds.
const mapPadding = 1.0

// NoCountryTitle is shown until a country is picked.
const NoCountryTitle = "Please select the country above, then cities and date range below..."

// MapChart is a geo scatter: one series per selected entity.
type MapChart struct {
	Title  string            `json:"title"`
	Series []model.MapSeries `json:"series"`
	Bounds *model.Bounds     `json:"bounds,omitempty"`
}

// BarChart is a set of yearly count series.
type BarChart struct {
	Title  string            `json:"title"`
	Series []model.BarSeries `json:"series"`
}

// RankChart is a top-N ranking, smallest first.
type RankChart struct {
	Title   string            `json:"title"`
	Metric  aggregator.Metric `json:"metric"`
	Entries []model.RankEntry `json:"entries"`
}

// Builder assembles charts over a shared dataset and month index. It holds no
// per-query state and is safe for concurrent use.
type Builder struct {
	Dataset *dataset.Dataset
	Index   *monthindex.Index

	JitterMean     float64
	JitterSigma    float64
	JitterActorMap bool
	RankLimit      int

	// NewSource supplies the random source for one query's jitter. Nil means
	// a freshly seeded generator per query.
	NewSource func() rand.Source
}

// New returns a Builder with the default jitter and ranking settings.
func New(ds *dataset.Dataset, idx *monthindex.Index) *Builder {
	return &Builder{
		Dataset:     ds,
		Index:       idx,
		JitterMean:  geo.DefaultMean,
		JitterSigma: geo.DefaultSigma,
		RankLimit:   aggregator.DefaultRankLimit,
	}
}

func (b *Builder) jitterer() *geo.Jitterer {
	var src rand.Source
	if b.NewSource != nil {
		src = b.NewSource()
	}
	return geo.NewJitterer(b.JitterMean, b.JitterSigma, src)
}

// PageTitle is the heading of the country page.
func (b *Builder) PageTitle(country string) string {
	if country == "" {
		return NoCountryTitle
	}
	return "Terrorist Attacks in the Provinces / States / Cities of " + country
}

// DateLabel formats a month index range.
func (b *Builder) DateLabel(start, end int) (string, error) {
	return b.Index.RangeLabel(start, end)
}

// PlaceMap plots the selected provinces, then the selected cities.
func (b *Builder) PlaceMap(sel query.Selector) (*MapChart, error) {
	sel.Mode = query.ModePlace
	events, err := query.Select(b.Dataset, b.Index, sel)
	if err != nil {
		return nil, err
	}
	label, err := b.Index.RangeLabel(sel.Start, sel.End)
	if err != nil {
		return nil, err
	}

	j := b.jitterer()
	series := make([]model.MapSeries, 0, len(sel.Provinces)+len(sel.Cities))
	for _, p := range sel.Provinces {
		series = append(series, mapSeries(events, model.FieldProvince, p, j))
	}
	for _, c := range sel.Cities {
		series = append(series, mapSeries(events, model.FieldCity, c, j))
	}

	return &MapChart{
		Title: "Terrorist Attacks in " + sel.Country + "  " + label + geo.LineBreak +
			strings.Join(sel.Provinces, ", ") + " " + strings.Join(sel.Cities, ", "),
		Series: series,
		Bounds: bounds(events),
	}, nil
}

// PlaceBars counts attacks per year for the selected provinces, then cities.
func (b *Builder) PlaceBars(sel query.Selector) (*BarChart, error) {
	sel.Mode = query.ModePlace
	events, err := query.Select(b.Dataset, b.Index, sel)
	if err != nil {
		return nil, err
	}
	label, err := b.Index.RangeLabel(sel.Start, sel.End)
	if err != nil {
		return nil, err
	}

	series := aggregator.Series(events, model.FieldProvince, sel.Provinces)
	series = append(series, aggregator.Series(events, model.FieldCity, sel.Cities)...)

	entities := append(append([]string{}, sel.Provinces...), sel.Cities...)
	return &BarChart{
		Title:  "Terrorist Attacks in " + sel.Country + "   " + label + geo.LineBreak + strings.Join(entities, ", "),
		Series: series,
	}, nil
}

// ActorMap plots the attacks of each selected perpetrator group.
func (b *Builder) ActorMap(sel query.Selector) (*MapChart, error) {
	sel.Mode = query.ModeActor
	events, err := query.Select(b.Dataset, b.Index, sel)
	if err != nil {
		return nil, err
	}
	label, err := b.Index.RangeLabel(sel.Start, sel.End)
	if err != nil {
		return nil, err
	}

	var j *geo.Jitterer
	if b.JitterActorMap {
		j = b.jitterer()
	}
	series := make([]model.MapSeries, 0, len(sel.Actors))
	for _, a := range sel.Actors {
		series = append(series, mapSeries(events, model.FieldActor, a, j))
	}

	return &MapChart{
		Title: "Terrorist Attacks in " + sel.Country + "  " + label + geo.LineBreak +
			strings.Join(geo.Wrap(strings.Join(sel.Actors, ", "), 110), geo.LineBreak),
		Series: series,
		Bounds: bounds(events),
	}, nil
}

// WorldMap plots the attacks of the selected countries over a year span.
func (b *Builder) WorldMap(countries []string, fromYear, toYear int) (*MapChart, error) {
	events, err := query.SelectCountries(b.Dataset, countries, fromYear, toYear)
	if err != nil {
		return nil, err
	}

	j := b.jitterer()
	series := make([]model.MapSeries, 0, len(countries))
	for _, c := range countries {
		series = append(series, mapSeries(events, model.FieldCountry, c, j))
	}

	return &MapChart{
		Title:  "Terrorist Attacks " + strings.Join(countries, ", ") + "  " + yearSpan(fromYear, toYear),
		Series: series,
		Bounds: bounds(events),
	}, nil
}

// WorldBars counts attacks per year for the selected countries.
func (b *Builder) WorldBars(countries []string, fromYear, toYear int) (*BarChart, error) {
	events, err := query.SelectCountries(b.Dataset, countries, fromYear, toYear)
	if err != nil {
		return nil, err
	}
	return &BarChart{
		Title:  "Yearly Terrorist Attacks " + strings.Join(countries, ", ") + "  " + yearSpan(fromYear, toYear),
		Series: aggregator.Series(events, model.FieldCountry, countries),
	}, nil
}

// TopCountries ranks all countries over a year span.
func (b *Builder) TopCountries(metric aggregator.Metric, fromYear, toYear int) (*RankChart, error) {
	events, err := query.SelectYears(b.Dataset, fromYear, toYear)
	if err != nil {
		return nil, err
	}

	title := "Number of Terrorist Attacks "
	if metric == aggregator.MetricSeverity {
		title = "Total Deaths from Terrorist Attacks "
	}
	return &RankChart{
		Title:   title + "  " + yearSpan(fromYear, toYear),
		Metric:  metric,
		Entries: aggregator.RankEntities(events, model.FieldCountry, metric, b.RankLimit),
	}, nil
}

// mapSeries collects the located events whose field equals name. A nil
// jitterer plots exact coordinates.
func mapSeries(events []model.Event, field model.Field, name string, j *geo.Jitterer) model.MapSeries {
	s := model.MapSeries{Name: name, Points: []model.MapPoint{}}
	for _, e := range events {
		if v, ok := e.Field(field); !ok || v != name {
			continue
		}
		c, ok := e.Coordinate()
		if !ok {
			continue
		}
		if j != nil {
			c = j.Jitter(c)
		}
		s.Points = append(s.Points, model.MapPoint{Lon: c.Lon, Lat: c.Lat, Text: geo.HoverText(e)})
	}
	return s
}

func bounds(events []model.Event) *model.Bounds {
	coords := make([]model.Coordinate, 0, len(events))
	for _, e := range events {
		if c, ok := e.Coordinate(); ok {
			coords = append(coords, c)
		}
	}
	b, ok := geo.Bounds(coords, mapPadding)
	if !ok {
		return nil
	}
	return &b
}

func yearSpan(from, to int) string {
	return fmt.Sprintf("%d - %d", from, to)
}

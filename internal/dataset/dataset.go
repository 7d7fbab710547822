// Package dataset loads and normalizes the incident records and holds them as
// shared read-only state for the lifetime of the process.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/intelligrit/gtd-map/internal/model"
)

// UnknownDay is substituted for a source day of 0.
const UnknownDay = 15

// ErrNoSource is returned when Load has nothing to read from.
var ErrNoSource = errors.New("no dataset source configured")

// Source yields raw rows. The CSV reader and the DuckDB store both implement it.
type Source interface {
	ReadEvents(ctx context.Context) ([]model.RawEvent, error)
}

// CSVFile is a Source backed by a GTD export on disk.
type CSVFile struct {
	Path string
}

// ReadEvents parses the file.
func (f CSVFile) ReadEvents(ctx context.Context) ([]model.RawEvent, error) {
	if f.Path == "" {
		return nil, ErrNoSource
	}
	return ReadCSVFile(f.Path)
}

// Stats describes what the loader kept and dropped.
type Stats struct {
	Raw          int `json:"raw"`
	Loaded       int `json:"loaded"`
	DroppedMonth int `json:"dropped_month"`
	DroppedDate  int `json:"dropped_date"`
	MinYear      int `json:"min_year"`
	MaxYear      int `json:"max_year"`
}

// Dataset is the normalized, immutable set of events. Nothing mutates it after
// New returns, so it can be shared by concurrent queries without locking.
type Dataset struct {
	events    []model.Event
	countries []string
	stats     Stats
}

// Load reads src once and builds the dataset. Any error is fatal to callers:
// there is nothing to serve without the data.
func Load(ctx context.Context, src Source, log *zap.Logger) (*Dataset, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	raw, err := src.ReadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	events, stats := Normalize(raw)
	ds := New(events)
	ds.stats = stats

	log.Info("dataset loaded",
		zap.Int("raw", stats.Raw),
		zap.Int("loaded", stats.Loaded),
		zap.Int("dropped_month", stats.DroppedMonth),
		zap.Int("dropped_date", stats.DroppedDate),
		zap.Int("countries", len(ds.countries)),
		zap.Duration("took", time.Since(start)),
	)
	return ds, nil
}

// New builds a dataset from already-normalized events. The slice is owned by
// the dataset afterwards.
func New(events []model.Event) *Dataset {
	ds := &Dataset{events: events}

	seen := make(map[string]bool)
	for i, e := range events {
		if e.Country != "" && !seen[e.Country] {
			seen[e.Country] = true
			ds.countries = append(ds.countries, e.Country)
		}
		if i == 0 || e.Year < ds.stats.MinYear {
			ds.stats.MinYear = e.Year
		}
		if e.Year > ds.stats.MaxYear {
			ds.stats.MaxYear = e.Year
		}
	}
	sort.Strings(ds.countries)
	ds.stats.Raw = len(events)
	ds.stats.Loaded = len(events)
	return ds
}

// Len returns the number of events.
func (d *Dataset) Len() int { return len(d.events) }

// Events iterates over all events in load order.
func (d *Dataset) Events() iter.Seq[model.Event] {
	return func(yield func(model.Event) bool) {
		for _, e := range d.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Countries returns the sorted distinct country names.
func (d *Dataset) Countries() []string {
	out := make([]string, len(d.countries))
	copy(out, d.countries)
	return out
}

// YearSpan returns the first and last year present.
func (d *Dataset) YearSpan() (int, int) { return d.stats.MinYear, d.stats.MaxYear }

// Stats returns load statistics.
func (d *Dataset) Stats() Stats { return d.stats }

// Normalize drops rows with month 0, fills unknown days with UnknownDay and
// derives each event's date. Rows whose date does not exist on the calendar
// are dropped as well.
func Normalize(raw []model.RawEvent) ([]model.Event, Stats) {
	stats := Stats{Raw: len(raw)}
	events := make([]model.Event, 0, len(raw))

	for _, r := range raw {
		if r.Month < 1 || r.Month > 12 {
			stats.DroppedMonth++
			continue
		}
		day := r.Day
		if day == 0 {
			day = UnknownDay
		}
		date := time.Date(r.Year, time.Month(r.Month), day, 0, 0, 0, 0, time.UTC)
		if date.Day() != day || int(date.Month()) != r.Month {
			stats.DroppedDate++
			continue
		}

		actor := model.UnknownActor
		if r.Actor.Valid && r.Actor.Value != "" {
			actor = r.Actor.Value
		}

		if len(events) == 0 || r.Year < stats.MinYear {
			stats.MinYear = r.Year
		}
		if r.Year > stats.MaxYear {
			stats.MaxYear = r.Year
		}

		events = append(events, model.Event{
			ID:        r.ID,
			Year:      r.Year,
			Month:     r.Month,
			Day:       r.Day,
			Date:      date,
			Country:   r.Country,
			Province:  r.Province,
			City:      r.City,
			Longitude: r.Longitude,
			Latitude:  r.Latitude,
			Kills:     r.Kills,
			Wounded:   r.Wounded,
			Summary:   r.Summary,
			Target:    r.Target,
			Actor:     actor,
		})
	}
	stats.Loaded = len(events)
	return events, stats
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/intelligrit/gtd-map/internal/dataset"
	"github.com/intelligrit/gtd-map/internal/model"
)

var _ dataset.Source = (*Store)(nil)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvents() []model.RawEvent {
	return []model.RawEvent{
		{
			ID: 200603150001, Year: 2006, Month: 3, Day: 15, Country: "Iraq",
			Province: model.SomeString("Baghdad"), City: model.SomeString("Baghdad"),
			Longitude: model.SomeFloat(44.4), Latitude: model.SomeFloat(33.3),
			Kills: model.SomeFloat(5), Actor: model.SomeString("Unknown"),
		},
		{
			ID: 198001010001, Year: 1980, Month: 1, Day: 0, Country: "Peru",
			Province: model.SomeString("Lima"), Summary: model.SomeString("Bombing."),
		},
	}
}

func TestEventsRoundTrip(t *testing.T) {
	s := testStore(t)

	if err := s.WriteEvents(sampleEvents(), "test.csv"); err != nil {
		t.Fatalf("writing events: %v", err)
	}

	got, err := s.ReadEvents(context.Background())
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	// Ordered by event id.
	peru, iraq := got[0], got[1]
	if peru.Country != "Peru" || iraq.Country != "Iraq" {
		t.Fatalf("unexpected order: %q, %q", peru.Country, iraq.Country)
	}
	if peru.City.Valid || peru.Longitude.Valid || peru.Kills.Valid {
		t.Errorf("expected missing values preserved, got %+v", peru)
	}
	if peru.Summary != model.SomeString("Bombing.") {
		t.Errorf("summary mismatch: %+v", peru.Summary)
	}
	if iraq.Kills != model.SomeFloat(5) || iraq.Latitude != model.SomeFloat(33.3) {
		t.Errorf("numeric mismatch: %+v", iraq)
	}
	if iraq.Actor != model.SomeString("Unknown") {
		t.Errorf("actor mismatch: %+v", iraq.Actor)
	}
}

func TestWriteEventsReplaces(t *testing.T) {
	s := testStore(t)

	if err := s.WriteEvents(sampleEvents(), "a.csv"); err != nil {
		t.Fatalf("writing events: %v", err)
	}
	if err := s.WriteEvents(sampleEvents()[:1], "b.csv"); err != nil {
		t.Fatalf("rewriting events: %v", err)
	}

	if n := s.EventCount(); n != 1 {
		t.Errorf("expected 1 event after replace, got %d", n)
	}
	at, src := s.ImportInfo()
	if src != "b.csv" {
		t.Errorf("expected source b.csv, got %q", src)
	}
	if at == "" {
		t.Error("expected imported_at to be set")
	}
}

func TestCountMethods(t *testing.T) {
	s := testStore(t)

	if s.EventCount() != 0 {
		t.Errorf("expected 0 events, got %d", s.EventCount())
	}
	if at, _ := s.ImportInfo(); at != "" {
		t.Errorf("expected no import info, got %q", at)
	}

	if err := s.WriteEvents(sampleEvents(), "test.csv"); err != nil {
		t.Fatalf("writing events: %v", err)
	}

	if s.EventCount() != 2 {
		t.Errorf("expected 2 events, got %d", s.EventCount())
	}
	if s.CountryCount() != 2 {
		t.Errorf("expected 2 countries, got %d", s.CountryCount())
	}
	byYear := s.CountByYear()
	if byYear[1980] != 1 || byYear[2006] != 1 || len(byYear) != 2 {
		t.Errorf("unexpected per-year counts: %v", byYear)
	}
}

func TestLoadDatasetFromStore(t *testing.T) {
	s := testStore(t)
	if err := s.WriteEvents(sampleEvents(), "test.csv"); err != nil {
		t.Fatalf("writing events: %v", err)
	}

	ds, err := dataset.Load(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 events, got %d", ds.Len())
	}
	for e := range ds.Events() {
		if e.Country == "Peru" && e.Date.Day() != dataset.UnknownDay {
			t.Errorf("expected unknown day substituted, got %v", e.Date)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := s.WriteEvents(sampleEvents(), "test.csv"); err != nil {
		t.Fatalf("writing events: %v", err)
	}
	s.Close()

	if _, err := os.Stat(filepath.Join(dir, DBName)); err != nil {
		t.Fatalf("expected database file: %v", err)
	}

	s, err = New(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s.Close()
	if s.EventCount() != 2 {
		t.Errorf("expected 2 events after reopen, got %d", s.EventCount())
	}
}

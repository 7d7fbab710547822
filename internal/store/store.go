package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/intelligrit/gtd-map/internal/model"
)

// DBName is the DuckDB file created inside the data directory.
const DBName = "gtd-map.duckdb"

// Store caches imported GTD rows in DuckDB so the server does not have to
// re-parse the CSV on every start.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(dataDir, DBName))
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			eventid BIGINT PRIMARY KEY,
			iyear INTEGER NOT NULL,
			imonth INTEGER NOT NULL,
			iday INTEGER NOT NULL,
			country_txt TEXT NOT NULL,
			provstate TEXT,
			city TEXT,
			longitude DOUBLE,
			latitude DOUBLE,
			nkill DOUBLE,
			nwound DOUBLE,
			summary TEXT,
			target1 TEXT,
			gname TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// WriteEvents replaces the cached rows with events and records where they
// came from.
func (s *Store) WriteEvents(events []model.RawEvent, source string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO events (eventid, iyear, imonth, iday, country_txt, provstate, city,
		longitude, latitude, nkill, nwound, summary, target1, gname)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.ID, e.Year, e.Month, e.Day, e.Country,
			nullString(e.Province), nullString(e.City),
			nullFloat(e.Longitude), nullFloat(e.Latitude), nullFloat(e.Kills), nullFloat(e.Wounded),
			nullString(e.Summary), nullString(e.Target), nullString(e.Actor)); err != nil {
			return fmt.Errorf("inserting event %d: %w", e.ID, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range map[string]string{"imported_at": now, "source": source} {
		if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReadEvents loads every cached row ordered by event id. It satisfies
// dataset.Source.
func (s *Store) ReadEvents(ctx context.Context) ([]model.RawEvent, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT eventid, iyear, imonth, iday, country_txt, provstate, city,
		longitude, latitude, nkill, nwound, summary, target1, gname FROM events ORDER BY eventid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.RawEvent
	for rows.Next() {
		var e model.RawEvent
		var prov, city, summary, target, actor sql.NullString
		var lon, lat, kills, wounded sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Year, &e.Month, &e.Day, &e.Country, &prov, &city,
			&lon, &lat, &kills, &wounded, &summary, &target, &actor); err != nil {
			return nil, err
		}
		e.Province, e.City = optString(prov), optString(city)
		e.Summary, e.Target, e.Actor = optString(summary), optString(target), optString(actor)
		e.Longitude, e.Latitude = optFloat(lon), optFloat(lat)
		e.Kills, e.Wounded = optFloat(kills), optFloat(wounded)
		events = append(events, e)
	}
	return events, rows.Err()
}

// EventCount returns the number of cached rows.
func (s *Store) EventCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(*) FROM events").Scan(&n)
	return n
}

// CountryCount returns the number of distinct countries in the cache.
func (s *Store) CountryCount() int {
	var n int
	s.DB.QueryRow("SELECT COUNT(DISTINCT country_txt) FROM events").Scan(&n)
	return n
}

// CountByYear returns row counts per year.
func (s *Store) CountByYear() map[int]int {
	m := make(map[int]int)
	rows, err := s.DB.Query("SELECT iyear, COUNT(*) FROM events GROUP BY iyear ORDER BY iyear")
	if err != nil {
		return m
	}
	defer rows.Close()
	for rows.Next() {
		var year, cnt int
		rows.Scan(&year, &cnt)
		m[year] = cnt
	}
	return m
}

// ImportInfo returns when and from where the cache was last written. Both are
// empty if nothing has been imported.
func (s *Store) ImportInfo() (importedAt, source string) {
	var at, src sql.NullString
	s.DB.QueryRow("SELECT value FROM meta WHERE key = 'imported_at'").Scan(&at)
	s.DB.QueryRow("SELECT value FROM meta WHERE key = 'source'").Scan(&src)
	return at.String, src.String
}

func nullString(v model.OptString) sql.NullString {
	return sql.NullString{String: v.Value, Valid: v.Valid}
}

func nullFloat(v model.OptFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value, Valid: v.Valid}
}

func optString(v sql.NullString) model.OptString {
	return model.OptString{Value: v.String, Valid: v.Valid}
}

func optFloat(v sql.NullFloat64) model.OptFloat {
	return model.OptFloat{Value: v.Float64, Valid: v.Valid}
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/intelligrit/gtd-map/internal/model"
)

// Columns are the GTD export columns the loader keeps. Everything else in the
// file is ignored.
var Columns = []string{
	"eventid", "iyear", "imonth", "iday", "country_txt", "provstate", "city",
	"longitude", "latitude", "nkill", "nwound", "summary", "target1", "gname",
}

// ReadCSVFile reads a GTD export from disk.
func ReadCSVFile(path string) ([]model.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// ReadCSV parses a Latin-1 encoded GTD export.
func ReadCSV(r io.Reader) ([]model.RawEvent, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(Columns))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := col[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []model.RawEvent
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cell := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		var row model.RawEvent
		if row.ID, err = parseInt64(cell("eventid")); err != nil {
			return nil, fmt.Errorf("line %d: eventid: %w", line, err)
		}
		if row.Year, err = parseInt(cell("iyear")); err != nil {
			return nil, fmt.Errorf("line %d: iyear: %w", line, err)
		}
		if row.Month, err = parseInt(cell("imonth")); err != nil {
			return nil, fmt.Errorf("line %d: imonth: %w", line, err)
		}
		if row.Day, err = parseInt(cell("iday")); err != nil {
			return nil, fmt.Errorf("line %d: iday: %w", line, err)
		}
		row.Country = cell("country_txt")
		row.Province = optString(cell("provstate"))
		row.City = optString(cell("city"))
		row.Longitude = optFloat(cell("longitude"))
		row.Latitude = optFloat(cell("latitude"))
		row.Kills = optFloat(cell("nkill"))
		row.Wounded = optFloat(cell("nwound"))
		row.Summary = optString(cell("summary"))
		row.Target = optString(cell("target1"))
		row.Actor = optString(cell("gname"))

		rows = append(rows, row)
	}
	return rows, nil
}

// parseInt accepts "3" as well as "3.0". Fractions, NaN and values outside
// the int64 range are errors.
func parseInt(s string) (int, error) {
	n, err := parseInt64(s)
	return int(n), err
}

func parseInt64(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int64(f), nil
}

func optString(s string) model.OptString {
	if s == "" {
		return model.OptString{}
	}
	return model.SomeString(s)
}

// optFloat treats empty and unparsable cells as missing.
func optFloat(s string) model.OptFloat {
	if s == "" {
		return model.OptFloat{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return model.OptFloat{}
	}
	return model.SomeFloat(f)
}

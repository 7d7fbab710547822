package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelligrit/gtd-map/internal/model"
)

const header = "eventid,iyear,imonth,iday,extended,country_txt,provstate,city,latitude,longitude,nkill,nwound,summary,target1,gname\n"

func TestReadCSV(t *testing.T) {
	data := header +
		`200603150001,2006,3,0,0,Iraq,Baghdad,Baghdad,33.3,44.4,5,,"A bomb, in a market.",Market,Unknown` + "\n" +
		`200603150002,2006,0,0,0,Iraq,Anbar,Ramadi,,,,3,,,` + "\n"

	rows, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, int64(200603150001), r.ID)
	assert.Equal(t, 2006, r.Year)
	assert.Equal(t, 3, r.Month)
	assert.Equal(t, 0, r.Day)
	assert.Equal(t, "Iraq", r.Country)
	assert.Equal(t, model.SomeString("Baghdad"), r.Province)
	assert.Equal(t, model.SomeFloat(44.4), r.Longitude)
	assert.Equal(t, model.SomeFloat(33.3), r.Latitude)
	assert.Equal(t, model.SomeFloat(5), r.Kills)
	assert.False(t, r.Wounded.Valid)
	assert.Equal(t, model.SomeString("A bomb, in a market."), r.Summary)

	r = rows[1]
	assert.False(t, r.Longitude.Valid)
	assert.False(t, r.Summary.Valid)
	assert.False(t, r.Actor.Valid)
	assert.Equal(t, model.SomeFloat(3), r.Wounded)
}

func TestReadCSVLatin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString("1,1990,5,2,0,Colombia,Antioquia,Medell")
	buf.WriteByte(0xED) // í in ISO-8859-1
	buf.WriteString("n,,,1,0,,Police,FARC\n")

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Medellín", rows[0].City.Value)
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("eventid,iyear,imonth\n1,2000,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iday")
	assert.Contains(t, err.Error(), "gname")
}

func TestReadCSVBadYear(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(header + "1,abc,1,1,0,Iraq,,,,,,,,,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iyear")
}

func TestReadCSVRejectsNonWholeNumbers(t *testing.T) {
	for _, year := range []string{"2006.5", "1e300", "NaN", "-Inf"} {
		_, err := ReadCSV(strings.NewReader(header + "1," + year + ",1,1,0,Iraq,,,,,,,,,\n"))
		require.Error(t, err, year)
		assert.Contains(t, err.Error(), "iyear", year)
	}

	rows, err := ReadCSV(strings.NewReader(header + "1.0,2006.0,3.0,1,0,Iraq,,,,,,,,,\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, 2006, rows[0].Year)
	assert.Equal(t, 3, rows[0].Month)
}

func TestReadCSVFileMissing(t *testing.T) {
	_, err := ReadCSVFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	raw := []model.RawEvent{
		{ID: 1, Year: 2006, Month: 3, Day: 0, Country: "Iraq", Province: model.SomeString("Baghdad"), Kills: model.SomeFloat(5)},
		{ID: 2, Year: 2006, Month: 0, Day: 0, Country: "Iraq"},
		{ID: 3, Year: 1999, Month: 2, Day: 30, Country: "Peru"},
		{ID: 4, Year: 2014, Month: 6, Day: 10, Country: "Iraq", Actor: model.SomeString("ISIL")},
	}

	events, stats := Normalize(raw)
	require.Len(t, events, 2)

	assert.Equal(t, time.Date(2006, 3, 15, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, 0, events[0].Day)
	assert.Equal(t, model.UnknownActor, events[0].Actor)
	assert.Equal(t, time.Date(2014, 6, 10, 0, 0, 0, 0, time.UTC), events[1].Date)
	assert.Equal(t, "ISIL", events[1].Actor)

	for _, e := range events {
		assert.NotZero(t, e.Month)
	}

	assert.Equal(t, Stats{Raw: 4, Loaded: 2, DroppedMonth: 1, DroppedDate: 1, MinYear: 2006, MaxYear: 2014}, stats)
}

func TestDatasetAccessors(t *testing.T) {
	events, _ := Normalize([]model.RawEvent{
		{ID: 1, Year: 2001, Month: 1, Day: 1, Country: "Peru"},
		{ID: 2, Year: 1995, Month: 1, Day: 1, Country: "Iraq"},
		{ID: 3, Year: 2010, Month: 1, Day: 1, Country: "Peru"},
	})
	ds := New(events)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Iraq", "Peru"}, ds.Countries())

	lo, hi := ds.YearSpan()
	assert.Equal(t, 1995, lo)
	assert.Equal(t, 2010, hi)

	var ids []int64
	for e := range ds.Events() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	// Countries returns a copy.
	c := ds.Countries()
	c[0] = "changed"
	assert.True(t, slices.Equal([]string{"Iraq", "Peru"}, ds.Countries()))
}

type fakeSource struct {
	rows []model.RawEvent
	err  error
}

func (f fakeSource) ReadEvents(context.Context) ([]model.RawEvent, error) { return f.rows, f.err }

func TestLoad(t *testing.T) {
	ds, err := Load(context.Background(), fakeSource{rows: []model.RawEvent{
		{ID: 1, Year: 2006, Month: 3, Country: "Iraq"},
		{ID: 2, Year: 2006, Month: 0, Country: "Iraq"},
	}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 1, ds.Stats().DroppedMonth)
	assert.Equal(t, 2, ds.Stats().Raw)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Load(context.Background(), CSVFile{}, nil)
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Load(context.Background(), fakeSource{err: os.ErrPermission}, nil)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtd.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"1,2006,3,0,0,Iraq,Baghdad,Baghdad,,,5,,,,\n"), 0o644))

	ds, err := Load(context.Background(), CSVFile{Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
}

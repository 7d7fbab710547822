package model

import "time"

// UnknownActor is the perpetrator name used when the source leaves it blank.
const UnknownActor = "Unknown"

// RawEvent is one row of the GTD export restricted to the columns we use.
type RawEvent struct {
	ID        int64     `json:"eventid"`
	Year      int       `json:"iyear"`
	Month     int       `json:"imonth"`
	Day       int       `json:"iday"`
	Country   string    `json:"country_txt"`
	Province  OptString `json:"provstate"`
	City      OptString `json:"city"`
	Longitude OptFloat  `json:"longitude"`
	Latitude  OptFloat  `json:"latitude"`
	Kills     OptFloat  `json:"nkill"`
	Wounded   OptFloat  `json:"nwound"`
	Summary   OptString `json:"summary"`
	Target    OptString `json:"target1"`
	Actor     OptString `json:"gname"`
}

// Event is a normalized incident. Month is always in 1..12 and Date is the
// reconstructed calendar day (day 15 when the source day is unknown).
type Event struct {
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
	Date      time.Time `json:"date"`
	Country   string    `json:"country"`
	Province  OptString `json:"province"`
	City      OptString `json:"city"`
	Longitude OptFloat  `json:"longitude"`
	Latitude  OptFloat  `json:"latitude"`
	Kills     OptFloat  `json:"kills"`
	Wounded   OptFloat  `json:"wounded"`
	Summary   OptString `json:"summary"`
	Target    OptString `json:"target"`
	Actor     string    `json:"actor"`
}

// Coordinate returns the event's position, or false if either axis is missing.
func (e Event) Coordinate() (Coordinate, bool) {
	if !e.Longitude.Valid || !e.Latitude.Valid {
		return Coordinate{}, false
	}
	return Coordinate{Lon: e.Longitude.Value, Lat: e.Latitude.Value}, true
}

// Field returns the value of an entity field and whether it is present.
func (e Event) Field(f Field) (string, bool) {
	switch f {
	case FieldProvince:
		return e.Province.Value, e.Province.Valid
	case FieldCity:
		return e.City.Value, e.City.Valid
	case FieldActor:
		return e.Actor, true
	case FieldCountry:
		return e.Country, e.Country != ""
	default:
		return "", false
	}
}

// Field names an entity attribute used for grouping and filtering.
type Field string

const (
	FieldProvince Field = "province"
	FieldCity     Field = "city"
	FieldActor    Field = "actor"
	FieldCountry  Field = "country"
)

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldProvince, FieldCity, FieldActor, FieldCountry:
		return true
	}
	return false
}

// Coordinate is a longitude/latitude pair in degrees.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Bounds is the visible map extent.
type Bounds struct {
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
}

// YearCount is one bar of a yearly series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// BarSeries is the yearly attack count for one entity.
type BarSeries struct {
	Name   string      `json:"name"`
	Points []YearCount `json:"points"`
}

// MapPoint is one plotted incident.
type MapPoint struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Text string  `json:"text"`
}

// MapSeries groups the plotted incidents of one entity.
type MapSeries struct {
	Name   string     `json:"name"`
	Points []MapPoint `json:"points"`
}

// RankEntry is one row of a top-N ranking.
type RankEntry struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Value float64 `json:"value"` // the ranked metric
}

package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MissingMarker is how an absent value is rendered in hover text.
const MissingMarker = "nan"

// OptString is a string that may be absent.
type OptString struct {
	Value string
	Valid bool
}

// SomeString returns a present OptString.
func SomeString(s string) OptString { return OptString{Value: s, Valid: true} }

// String renders the value, or MissingMarker when absent.
func (o OptString) String() string {
	if !o.Valid {
		return MissingMarker
	}
	return o.Value
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptString{}
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// OptFloat is a number that may be absent.
type OptFloat struct {
	Value float64
	Valid bool
}

// SomeFloat returns a present OptFloat.
func SomeFloat(f float64) OptFloat { return OptFloat{Value: f, Valid: true} }

// Or returns the value, or def when absent.
func (o OptFloat) Or(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Value
}

// String renders a present value with at least one decimal ("5.0", "0.5") and an
// absent one as MissingMarker.
func (o OptFloat) String() string {
	if !o.Valid || math.IsNaN(o.Value) {
		return MissingMarker
	}
	if math.IsInf(o.Value, 0) {
		if o.Value > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(o.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptFloat{}
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptFloatString(t *testing.T) {
	cases := []struct {
		in   OptFloat
		want string
	}{
		{OptFloat{}, "nan"},
		{SomeFloat(5), "5.0"},
		{SomeFloat(0), "0.0"},
		{SomeFloat(0.5), "0.5"},
		{SomeFloat(1250), "1250.0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.String())
	}
}

func TestOptFloatOr(t *testing.T) {
	assert.Equal(t, 0.0, OptFloat{}.Or(0))
	assert.Equal(t, 3.0, SomeFloat(3).Or(0))
}

func TestOptStringString(t *testing.T) {
	assert.Equal(t, "nan", OptString{}.String())
	assert.Equal(t, "Baghdad", SomeString("Baghdad").String())
	assert.Equal(t, "", SomeString("").String())
}

func TestOptionalJSON(t *testing.T) {
	type row struct {
		City  OptString `json:"city"`
		Kills OptFloat  `json:"kills"`
	}

	b, err := json.Marshal(row{City: SomeString("Mosul")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Mosul","kills":null}`, string(b))

	var got row
	require.NoError(t, json.Unmarshal([]byte(`{"city":null,"kills":4}`), &got))
	assert.False(t, got.City.Valid)
	assert.Equal(t, SomeFloat(4), got.Kills)
}

func TestEventCoordinate(t *testing.T) {
	e := Event{Longitude: SomeFloat(44.4), Latitude: SomeFloat(33.3)}
	c, ok := e.Coordinate()
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lon: 44.4, Lat: 33.3}, c)

	e.Latitude = OptFloat{}
	_, ok = e.Coordinate()
	assert.False(t, ok)
}

func TestEventField(t *testing.T) {
	e := Event{Country: "Iraq", Province: SomeString("Baghdad"), Actor: "ISIL"}

	v, ok := e.Field(FieldProvince)
	assert.True(t, ok)
	assert.Equal(t, "Baghdad", v)

	_, ok = e.Field(FieldCity)
	assert.False(t, ok)

	v, _ = e.Field(FieldActor)
	assert.Equal(t, "ISIL", v)

	_, ok = e.Field(Field("weapon"))
	assert.False(t, ok)
}

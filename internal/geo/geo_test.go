package geo

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelligrit/gtd-map/internal/model"
)

func TestJitterBoundedOffset(t *testing.T) {
	j := NewJitterer(DefaultMean, DefaultSigma, rand.NewPCG(1, 2))
	origin := model.Coordinate{Lon: 44.36, Lat: 33.31}

	// With a fixed seed the draws are deterministic; six sigma is a bound no
	// sane draw sequence of this size crosses.
	limit := 6 * DefaultSigma
	var sumLon, sumLat float64
	const n = 2000
	for i := 0; i < n; i++ {
		c := j.Jitter(origin)
		dLon, dLat := c.Lon-origin.Lon, c.Lat-origin.Lat
		require.LessOrEqual(t, math.Abs(dLon-DefaultMean), limit)
		require.LessOrEqual(t, math.Abs(dLat-DefaultMean), limit)
		sumLon += dLon
		sumLat += dLat
	}
	assert.InDelta(t, DefaultMean, sumLon/n, 0.005)
	assert.InDelta(t, DefaultMean, sumLat/n, 0.005)
}

func TestJitterSeparatesCoincidentPoints(t *testing.T) {
	j := NewJitterer(DefaultMean, DefaultSigma, rand.NewPCG(7, 7))
	origin := model.Coordinate{Lon: 10, Lat: 10}

	a, b := j.Jitter(origin), j.Jitter(origin)
	assert.NotEqual(t, a, b)
	for _, c := range []model.Coordinate{a, b} {
		assert.Less(t, math.Hypot(c.Lon-origin.Lon, c.Lat-origin.Lat), 0.5)
	}
}

func TestJitterZeroSigma(t *testing.T) {
	j := NewJitterer(0.04, 0, rand.NewPCG(1, 1))
	c := j.Jitter(model.Coordinate{Lon: 1, Lat: 2})
	assert.InDelta(t, 1.04, c.Lon, 1e-12)
	assert.InDelta(t, 2.04, c.Lat, 1e-12)
}

func TestJitterNilSource(t *testing.T) {
	j := NewJitterer(DefaultMean, DefaultSigma, nil)
	c := j.Jitter(model.Coordinate{})
	assert.Less(t, math.Abs(c.Lon), 1.0)
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil, 1)
	assert.False(t, ok)

	b, ok := Bounds([]model.Coordinate{{Lon: 44, Lat: 33}, {Lon: 43, Lat: 36}}, 1)
	require.True(t, ok)
	assert.Equal(t, model.Bounds{LonMin: 42, LonMax: 45, LatMin: 32, LatMax: 37}, b)
}

func hoverEvent() model.Event {
	return model.Event{
		Country: "Iraq",
		City:    model.SomeString("Baghdad"),
		Date:    time.Date(2006, 3, 15, 0, 0, 0, 0, time.UTC),
		Actor:   model.UnknownActor,
		Kills:   model.SomeFloat(5),
	}
}

func TestHoverTextWithoutSummary(t *testing.T) {
	got := HoverText(hoverEvent())
	assert.Equal(t,
		"Baghdad, Iraq<br>15 Mar, 2006<br>Perpetrator: Unknown<br>Target: nan<br>Deaths: 5.0<br>Injured: nan<br><br>",
		got)
}

func TestHoverTextWithSummary(t *testing.T) {
	e := hoverEvent()
	e.City = model.OptString{}
	e.Target = model.SomeString("Market")
	e.Wounded = model.SomeFloat(12)
	e.Summary = model.SomeString("03/15/2006: A car bomb exploded near a crowded market in the city center.")

	lines := HoverLines(e)
	assert.Equal(t, "nan, Iraq", lines[0])
	assert.Equal(t, "Target: Market", lines[3])
	assert.Equal(t, "Injured: 12.0", lines[5])
	assert.Equal(t, "", lines[6])
	for _, l := range lines[7:] {
		assert.LessOrEqual(t, len(l), SummaryWidth)
	}
	assert.Equal(t, e.Summary.Value, strings.Join(lines[7:], " "))

	assert.Equal(t, strings.Join(lines, "<br>"), HoverText(e))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"The quick", "brown fox"}, Wrap("The quick brown fox", 10))
	assert.Equal(t, []string{"a   b         c"}, Wrap("a   b\n\tc", 40))
	assert.Nil(t, Wrap("   ", 40))
	assert.Equal(t, []string{"ab xx", "xxxxx", "xxxxx"}, Wrap("ab "+strings.Repeat("x", 12), 5))
	assert.Equal(t, []string{"abcde", "f"}, Wrap("abcdef", 5))
}

func TestWrapBreaksAfterHyphens(t *testing.T) {
	got := Wrap("01/05/2015: Assailants attacked an anti-government rally organized by the al-Qaida in Iraq affiliated group.", 40)
	assert.Equal(t, []string{
		"01/05/2015: Assailants attacked an anti-",
		"government rally organized by the al-",
		"Qaida in Iraq affiliated group.",
	}, got)

	// A single letter before the hyphen does not split.
	assert.Equal(t, []string{"an", "X-ray"}, Wrap("an X-ray", 6))
	assert.Equal(t, []string{"pro-gover", "nment"}, Wrap("pro-government", 9))
	// Long words are cut at their last hyphen that fits.
	assert.Equal(t, []string{"x1-", "abcde", "fgh"}, Wrap("x1-abcdefgh", 5))
}

func TestWrapKeepsInnerSpaces(t *testing.T) {
	assert.Equal(t, []string{"a  b   c"}, Wrap("a  b   c", 40))
	assert.Equal(t, []string{"a  b", "c"}, Wrap("a  b   c", 5))
	assert.Equal(t, []string{"abcd ", "xxxxx", "xxx"}, Wrap("abcd xxxxxxxx", 5))
}

func TestWrapCountsRunes(t *testing.T) {
	got := Wrap("Medellín Medellín", 8)
	assert.Equal(t, []string{"Medellín", "Medellín"}, got)
}

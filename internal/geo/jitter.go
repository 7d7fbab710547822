// Package geo declusters map points and formats their hover text.
package geo

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/intelligrit/gtd-map/internal/model"
)

const (
	// DefaultMean is the mean offset in degrees added to each axis.
	DefaultMean = 0.04
	// DefaultSigma is the standard deviation of the offset in degrees.
	DefaultSigma = 0.03
)

// Jitterer adds a small normally distributed offset to coordinates so that
// incidents recorded at the same place do not hide each other. It is not safe
// for concurrent use; build one per query.
type Jitterer struct {
	dist distuv.Normal
}

// NewJitterer returns a Jitterer drawing from src. A nil src gets a freshly
// seeded generator.
func NewJitterer(mean, sigma float64, src rand.Source) *Jitterer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Jitterer{dist: distuv.Normal{Mu: mean, Sigma: sigma, Src: src}}
}

// Jitter offsets longitude and latitude independently.
func (j *Jitterer) Jitter(c model.Coordinate) model.Coordinate {
	return model.Coordinate{
		Lon: c.Lon + j.dist.Rand(),
		Lat: c.Lat + j.dist.Rand(),
	}
}

// Bounds returns the extent of coords padded by pad degrees on every side,
// or false for an empty set.
func Bounds(coords []model.Coordinate, pad float64) (model.Bounds, bool) {
	if len(coords) == 0 {
		return model.Bounds{}, false
	}
	b := model.Bounds{
		LonMin: coords[0].Lon, LonMax: coords[0].Lon,
		LatMin: coords[0].Lat, LatMax: coords[0].Lat,
	}
	for _, c := range coords[1:] {
		b.LonMin = min(b.LonMin, c.Lon)
		b.LonMax = max(b.LonMax, c.Lon)
		b.LatMin = min(b.LatMin, c.Lat)
		b.LatMax = max(b.LatMax, c.Lat)
	}
	b.LonMin -= pad
	b.LonMax += pad
	b.LatMin -= pad
	b.LatMax += pad
	return b, true
}

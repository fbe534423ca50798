package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceOneDegreeLongitudeAtEquator(t *testing.T) {
	a := Location{Latitude: 0, Longitude: 0}
	b := Location{Latitude: 0, Longitude: 1}

	distance := Distance(a, b)
	require.InDelta(t, 111.19, distance, 0.5, "one degree of longitude at the equator is roughly 111 km")
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Location{Latitude: 52.52, Longitude: 13.405}
	b := Location{Latitude: 48.8566, Longitude: 2.3522}

	require.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceZero(t *testing.T) {
	a := Location{Latitude: 41.9, Longitude: 12.5}
	require.Zero(t, Distance(a, a))
}

func TestWithinRadius(t *testing.T) {
	type point struct {
		name     string
		location Location
		located  bool
	}

	points := []point{
		{name: "origin", location: Location{0, 0}, located: true},
		{name: "east", location: Location{0, 1}, located: true},
		{name: "nowhere", located: false},
	}

	locate := func(p point) (Location, bool) {
		return p.location, p.located
	}
	center := Location{Latitude: 0, Longitude: 0}

	near := WithinRadius(points, locate, center, 50)
	require.Len(t, near, 1)
	require.Equal(t, "origin", near[0].name, "a 50 km radius must exclude a point 111 km away")

	wide := WithinRadius(points, locate, center, 150)
	require.Len(t, wide, 2, "a 150 km radius must include the eastern point")

	for _, p := range wide {
		require.NotEqual(t, "nowhere", p.name, "points without a location never match")
	}
}

func TestWithinRadiusFractional(t *testing.T) {
	points := []Location{{0, 0.001}}

	locate := func(l Location) (Location, bool) { return l, true }

	require.Len(t, WithinRadius(points, locate, Location{0, 0}, 0.2), 1)
	require.Empty(t, WithinRadius(points, locate, Location{0, 0}, 0.05))
}

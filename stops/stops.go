// Package stops ranks the stops of a line by distance from a position.
package stops

import (
	"math"
	"sort"
)

const earthRadiusKM = 6371.0

// Point is a WGS84 position.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Coordinates maps stop names to positions.
type Coordinates map[string]Point

// Ranked is a stop of a line with its distance from the user, when known.
type Ranked struct {
	Name     string   `json:"name"`
	Index    int      `json:"index"`
	Distance *float64 `json:"distance"`
}

// Distance returns the great-circle distance in kilometres.
func Distance(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKM * c
}

// SortByDistance returns the stops ordered by distance from user. Stops
// without coordinates keep their relative order after the located ones.
// With no user position the line order is kept and no distance is set.
func SortByDistance(names []string, coords Coordinates, user *Point) []Ranked {
	out := make([]Ranked, len(names))
	for i, name := range names {
		out[i] = Ranked{Name: name, Index: i}
		if user == nil {
			continue
		}
		if p, ok := coords[name]; ok {
			d := Distance(*user, p)
			out[i].Distance = &d
		}
	}
	if user == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Distance, out[j].Distance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out
}

// NearestPriority returns the priority stop of the line closest to user.
// Priority stops missing from the line or from coords are ignored. On equal
// distance the stop listed later in priority wins.
func NearestPriority(user Point, names []string, coords Coordinates, priority []string) (Ranked, bool) {
	var best Ranked
	found := false
	for _, name := range priority {
		idx := indexOf(names, name)
		p, ok := coords[name]
		if idx < 0 || !ok {
			continue
		}
		d := Distance(user, p)
		if found && *best.Distance < d {
			continue
		}
		best = Ranked{Name: name, Index: idx, Distance: &d}
		found = true
	}
	return best, found
}

// OppositeTerminus picks the arrival terminus for a departure stop. From
// one terminus it is the other; from an intermediate stop it is the
// terminus farther away along the line.
func OppositeTerminus(departure string, names []string, termini [2]string) (Ranked, bool) {
	first, last := indexOf(names, termini[0]), indexOf(names, termini[1])
	if first < 0 || last < 0 {
		return Ranked{}, false
	}
	switch departure {
	case termini[0]:
		return Ranked{Name: termini[1], Index: last}, true
	case termini[1]:
		return Ranked{Name: termini[0], Index: first}, true
	}
	idx := indexOf(names, departure)
	if idx < 0 {
		return Ranked{}, false
	}
	if abs(idx-first) < abs(idx-last) {
		return Ranked{Name: termini[1], Index: last}, true
	}
	return Ranked{Name: termini[0], Index: first}, true
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package stops

import (
	"archive/zip"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadGTFS reads stop positions from a static GTFS feed, either a zip
// archive or a bare stops.txt. Stops are keyed by stop_name; when several
// stops share a name the first one wins.
func LoadGTFS(path string) (Coordinates, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return loadFromZip(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGTFSStops(f)
}

func loadFromZip(path string) (Coordinates, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if strings.ToLower(f.Name) != "stops.txt" {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return ReadGTFSStops(r)
	}
	return Coordinates{}, nil
}

// ReadGTFSStops parses stops.txt. Rows with unparsable coordinates are
// skipped.
func ReadGTFSStops(r io.Reader) (Coordinates, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return nil, err
	}
	out := Coordinates{}
	if len(rec) == 0 {
		return out, nil
	}
	head := rec[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	sN, sLat, sLon := idx("stop_name"), idx("stop_lat"), idx("stop_lon")
	if sN < 0 || sLat < 0 || sLon < 0 {
		return out, nil
	}
	for _, row := range rec[1:] {
		if len(row) <= sN || len(row) <= sLat || len(row) <= sLon {
			continue
		}
		name := strings.TrimSpace(row[sN])
		if _, seen := out[name]; seen || name == "" {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[sLat]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[sLon]), 64)
		if err != nil {
			continue
		}
		out[name] = Point{Lat: lat, Lng: lon}
	}
	return out, nil
}

// Merge returns a copy of base with every entry of override applied on top.
func Merge(base, override Coordinates) Coordinates {
	out := make(Coordinates, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

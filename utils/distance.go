package utils

import (
	"fmt"
	"math"
)

// Average speeds in km/h used for travel time estimates.
const (
	WalkingSpeedKMH = 5.0
	CarSpeedKMH     = 50.0
	BusSpeedKMH     = 30.0
)

// TravelTimes holds estimated minutes to cover a distance.
type TravelTimes struct {
	Walk int `json:"walk"`
	Car  int `json:"car"`
	Bus  int `json:"bus"`
}

// EstimateTime returns rounded travel minutes for a distance in km.
func EstimateTime(distanceKM float64) TravelTimes {
	return TravelTimes{
		Walk: roundMinutes(distanceKM / WalkingSpeedKMH * 60),
		Car:  roundMinutes(distanceKM / CarSpeedKMH * 60),
		Bus:  roundMinutes(distanceKM / BusSpeedKMH * 60),
	}
}

func roundMinutes(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatMinutes renders "25 min", "1h" or "1h 30min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours, mins := minutes/60, minutes%60
	if mins > 0 {
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}

// PresentableDistance formats distance information for display: metres
// below one kilometre, kilometres with two decimals above.
func PresentableDistance(distanceKM float64) string {
	if distanceKM < 1 {
		return fmt.Sprintf("%d m", int(math.Floor(distanceKM*1000+0.5)))
	}
	return fmt.Sprintf("%.2f km", distanceKM)
}

package services

import (
	"shipment-savings-service/internal/domain"

	"github.com/umahmood/haversine"
)

// Straight-line distance times this factor approximates the road distance.
const RoadIndirectionFactor = 1.15

// GreatCircleDistance returns the haversine distance in km (Earth radius 6371 km).
func GreatCircleDistance(a, b domain.Coordinates) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km
}

// EstimateRoadDistance returns the estimated road distance in km between a and b.
// It is symmetric and zero for identical points.
func EstimateRoadDistance(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}
	return GreatCircleDistance(a, b) * RoadIndirectionFactor
}

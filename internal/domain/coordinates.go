package domain

// Immutable geographic coordinates in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lat, lon], the order used by the durable cache document.
func (c Coordinates) LatLon() [2]float64 { return [2]float64{c.Lat, c.Lon} }

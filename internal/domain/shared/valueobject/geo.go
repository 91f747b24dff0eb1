package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// Coordinates is a WGS84 latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinates validates latitude and longitude bounds
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

// IsZero reports whether both components are zero
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// DistanceTo returns the great-circle distance in meters
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLng := (other.Lng - c.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// String formats as "lat,lng"
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Value stores coordinates as a JSON object
func (c Coordinates) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads coordinates from a JSON column
func (c *Coordinates) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*c = Coordinates{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into Coordinates", value)
	}
}

package route

import (
	"context"
	"errors"

	"github.com/loro/backend/internal/domain/shared/valueobject"
)

// ErrAddressNotFound is returned by a Geocoder when an address has no match
var ErrAddressNotFound = errors.New("address not found")

// Geocoder resolves a free-form address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (valueobject.Coordinates, error)
}

// Optimization is the answer of the external route optimizer
type Optimization struct {
	// VisitingOrder lists destination indexes in visiting order
	VisitingOrder        []int
	Legs                 []Leg
	TotalDistanceMeters  int
	TotalDurationSeconds int
}

// Optimizer orders destinations into the shortest tour from origin
type Optimizer interface {
	Optimize(ctx context.Context, origin valueobject.Coordinates, destinations []valueobject.Coordinates) (*Optimization, error)
}

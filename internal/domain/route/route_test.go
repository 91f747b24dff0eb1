package route

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWaypoints(taskID uuid.UUID, n int) []Waypoint {
	wps := make([]Waypoint, n)
	for i := range wps {
		wps[i] = Waypoint{
			TaskID:   taskID,
			ClientID: uuid.New(),
			Location: valueobject.Coordinates{Lat: -26 - float64(i)/10, Lng: 28},
		}
	}
	return wps
}

func TestNewRoute(t *testing.T) {
	taskID := uuid.New()
	planned := time.Date(2024, 1, 8, 14, 30, 0, 0, time.UTC)

	t.Run("builds optimized route", func(t *testing.T) {
		wps := sampleWaypoints(taskID, 3)
		r, err := NewRoute(uuid.New(), taskID, uuid.New(), uuid.New(), valueobject.Coordinates{Lat: -26, Lng: 28}, wps, &Optimization{
			VisitingOrder:        []int{2, 0, 1},
			Legs:                 []Leg{{DistanceMeters: 100}, {DistanceMeters: 200}, {DistanceMeters: 300}},
			TotalDistanceMeters:  600,
			TotalDurationSeconds: 900,
		}, planned)
		require.NoError(t, err)

		assert.True(t, r.Optimized)
		assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), r.PlannedDate)
		assert.Equal(t, 600, r.TotalDistanceMeters)
		ordered := r.OrderedWaypoints()
		assert.Equal(t, wps[2].ClientID, ordered[0].ClientID)
		assert.Equal(t, wps[1].ClientID, ordered[2].ClientID)
		assert.Len(t, r.ClientIDs(), 3)
		require.Len(t, r.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeRoutePlanned, r.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty waypoints", func(t *testing.T) {
		_, err := NewRoute(uuid.New(), taskID, uuid.New(), uuid.New(), valueobject.Coordinates{}, nil, &Optimization{}, planned)
		assert.Error(t, err)
	})

	t.Run("rejects order that is not a permutation", func(t *testing.T) {
		for _, order := range [][]int{{0, 0}, {0}, {0, 2}, {-1, 0}} {
			_, err := NewRoute(uuid.New(), taskID, uuid.New(), uuid.New(), valueobject.Coordinates{}, sampleWaypoints(taskID, 2), &Optimization{VisitingOrder: order}, planned)
			assert.Error(t, err, "order %v", order)
		}
	})
}

func TestWaypoints_ScanValue(t *testing.T) {
	wps := Waypoints(sampleWaypoints(uuid.New(), 2))
	v, err := wps.Value()
	require.NoError(t, err)

	var scanned Waypoints
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, wps, scanned)

	var order VisitingOrder
	require.NoError(t, order.Scan([]byte(`[1,0]`)))
	assert.Equal(t, VisitingOrder{1, 0}, order)

	var legs Legs
	assert.Error(t, legs.Scan(42))
}

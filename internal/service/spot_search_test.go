package service_test

import (
	"testing"
	"time"

	"parkshare/internal/domain"
	"parkshare/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spotsForSearch() []domain.ParkingSpot {
	mk := func(id string, lat, rate float64, size domain.VehicleSize, from, to int) domain.ParkingSpot {
		s := *spotFixture(id, "o", rate)
		s.Latitude = lat
		s.MaxVehicleSize = size
		s.AvailabilityStart = window.Add(time.Duration(from) * time.Hour)
		s.AvailabilityEnd = window.Add(time.Duration(to) * time.Hour)
		return s
	}
	return []domain.ParkingSpot{
		mk("a", 0.000, 5, domain.VehicleCompact, 0, 10),
		mk("b", 0.005, 15, domain.VehicleSUV, 0, 4),
		mk("c", 0.050, 8, domain.VehicleCompact, 2, 12),
		mk("d", 0.002, 25, domain.VehicleAny, 0, 12),
	}
}

func ids(spots []domain.ParkingSpot) []string {
	out := make([]string, len(spots))
	for i, s := range spots {
		out[i] = s.ID
	}
	return out
}

func TestFilterSpots_NoFilters(t *testing.T) {
	all := spotsForSearch()
	assert.Equal(t, all, service.FilterSpots(all, domain.SpotSearch{}))
}

func TestFilterSpots_MaxPrice(t *testing.T) {
	got := service.FilterSpots(spotsForSearch(), domain.SpotSearch{MaxPrice: ptr(10.0)})
	assert.Equal(t, []string{"a", "c"}, ids(got))
	for _, s := range got {
		assert.LessOrEqual(t, s.HourlyRate, 10.0)
	}
}

func TestFilterSpots_Radius(t *testing.T) {
	got := service.FilterSpots(spotsForSearch(), domain.SpotSearch{
		Latitude: ptr(0.0), Longitude: ptr(0.0), Radius: ptr(1000.0),
	})
	assert.Equal(t, []string{"a", "b", "d"}, ids(got))
}

func TestFilterSpots_RadiusNeedsAllThreeParams(t *testing.T) {
	got := service.FilterSpots(spotsForSearch(), domain.SpotSearch{Latitude: ptr(0.0), Radius: ptr(1.0)})
	assert.Len(t, got, 4)
}

func TestFilterSpots_VehicleSizeExactMatch(t *testing.T) {
	got := service.FilterSpots(spotsForSearch(), domain.SpotSearch{VehicleSize: ptr(domain.VehicleCompact)})
	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestFilterSpots_WindowContainment(t *testing.T) {
	got := service.FilterSpots(spotsForSearch(), domain.SpotSearch{
		StartTime: ptr(window.Add(3 * time.Hour)),
		EndTime:   ptr(window.Add(9 * time.Hour)),
	})
	assert.Equal(t, []string{"a", "c", "d"}, ids(got))
}

func TestFilterSpots_Combined(t *testing.T) {
	got := service.FilterSpots(spotsForSearch(), domain.SpotSearch{
		Latitude: ptr(0.0), Longitude: ptr(0.0), Radius: ptr(1000.0),
		MaxPrice:  ptr(20.0),
		StartTime: ptr(window.Add(time.Hour)),
		EndTime:   ptr(window.Add(3 * time.Hour)),
	})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestPaginate(t *testing.T) {
	all := spotsForSearch()

	first := service.Paginate(all, 1, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(first.Spots))
	assert.Equal(t, domain.Pagination{Total: 4, Page: 1, Size: 3, Pages: 2}, first.Pagination)

	second := service.Paginate(all, 2, 3)
	assert.Equal(t, []string{"d"}, ids(second.Spots))

	beyond := service.Paginate(all, 5, 3)
	assert.Empty(t, beyond.Spots)
	assert.NotNil(t, beyond.Spots)
	assert.Equal(t, 4, beyond.Pagination.Total)
	assert.Equal(t, 2, beyond.Pagination.Pages)

	empty := service.Paginate(nil, 1, 20)
	assert.Equal(t, 0, empty.Pagination.Pages)
}

func TestNearby_SortedAndBounded(t *testing.T) {
	got := service.Nearby(spotsForSearch(), 0, 0, 1000)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
	for i, s := range got {
		assert.LessOrEqual(t, s.Distance, 1000.0)
		if i > 0 {
			assert.GreaterOrEqual(t, s.Distance, got[i-1].Distance)
		}
	}
}

func TestNearby_StableOnTies(t *testing.T) {
	x := *spotFixture("x", "o", 1)
	y := *spotFixture("y", "o", 1)
	got := service.Nearby([]domain.ParkingSpot{x, y}, 0, 0, 100)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].ID)
	assert.Equal(t, "y", got[1].ID)
}

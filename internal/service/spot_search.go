package service

import (
	"sort"

	"parkshare/internal/domain"
	"parkshare/internal/geo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultNearbyRadius = 5000.0
	MinNearbyRadius     = 100.0
	MaxNearbyRadius     = 50000.0
)

// FilterSpots applies, in order, the radius, price, vehicle size and time
// window filters of q. A filter whose parameters are absent is skipped.
// The input order is preserved.
func FilterSpots(spots []domain.ParkingSpot, q domain.SpotSearch) []domain.ParkingSpot {
	out := make([]domain.ParkingSpot, 0, len(spots))
	for _, s := range spots {
		if q.Latitude != nil && q.Longitude != nil && q.Radius != nil &&
			!geo.Within(*q.Latitude, *q.Longitude, s.Latitude, s.Longitude, *q.Radius) {
			continue
		}
		if q.MaxPrice != nil && s.HourlyRate > *q.MaxPrice {
			continue
		}
		if q.VehicleSize != nil && s.MaxVehicleSize != *q.VehicleSize {
			continue
		}
		if q.StartTime != nil && q.EndTime != nil && !s.Covers(*q.StartTime, *q.EndTime) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Paginate slices spots into 1-indexed pages of size. A page past the end is
// empty but still reports the full total.
func Paginate(spots []domain.ParkingSpot, page, size int) domain.SpotPage {
	total := len(spots)
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	start := (page - 1) * size
	items := []domain.ParkingSpot{}
	if page >= 1 && size > 0 && start < total {
		end := start + size
		if end > total {
			end = total
		}
		items = spots[start:end]
	}
	return domain.SpotPage{
		Spots:      items,
		Pagination: domain.Pagination{Total: total, Page: page, Size: size, Pages: pages},
	}
}

// Nearby annotates every spot within radius meters of (lat, lon) with its
// distance and orders them nearest first. Equal distances keep input order.
func Nearby(spots []domain.ParkingSpot, lat, lon, radius float64) []domain.SpotWithDistance {
	out := []domain.SpotWithDistance{}
	for _, s := range spots {
		d := geo.Haversine(lat, lon, s.Latitude, s.Longitude)
		if d <= radius {
			out = append(out, domain.SpotWithDistance{ParkingSpot: s, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

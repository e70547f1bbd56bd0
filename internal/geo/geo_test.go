package geo

import (
	"math"
	"testing"
)

func TestHaversineZero(t *testing.T) {
	d := Haversine(0, 0, 0, 0)
	if d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
	if d := Haversine(52.52, 13.405, 52.52, 13.405); d != 0 {
		t.Fatalf("expected 0 for identical points, got %f", d)
	}
}

func TestHaversineQuarterMeridian(t *testing.T) {
	got := Haversine(0, 0, 0, 90)
	want := EarthRadiusMeters * math.Pi / 2
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected %f, got %f", want, got)
	}
	if math.Abs(got-10007543.4) > 1 {
		t.Fatalf("expected ~10007543 m, got %f", got)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	points := [][2]float64{
		{0, 0}, {48.8566, 2.3522}, {-33.8688, 151.2093}, {40.7128, -74.006}, {89.9, 179.9},
	}
	for _, a := range points {
		for _, b := range points {
			ab := Haversine(a[0], a[1], b[0], b[1])
			ba := Haversine(b[0], b[1], a[0], a[1])
			if math.Abs(ab-ba) > 1e-6 {
				t.Fatalf("asymmetric distance %v->%v: %f vs %f", a, b, ab, ba)
			}
		}
	}
}

func TestWithinIsInclusive(t *testing.T) {
	d := Haversine(0, 0, 0, 1)
	if !Within(0, 0, 0, 1, d) {
		t.Fatal("point exactly on the radius should be within")
	}
	if Within(0, 0, 0, 1, d-1) {
		t.Fatal("point beyond the radius should not be within")
	}
}

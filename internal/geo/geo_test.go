package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters_KnownPairs(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"same point", Point{46.8523, -121.7603}, Point{46.8523, -121.7603}, 0, 0.001},
		{"one degree latitude", Point{0, 0}, Point{1, 0}, 111195, 50},
		{"rainier to adams", Point{46.8523, -121.7603}, Point{46.2024, -121.4909}, 75000, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("DistanceMeters = %.1f, want %.1f ± %.1f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestBounds_PanKeepsSizeAtWorldEdge(t *testing.T) {
	b := Bounds{MinLat: 80, MinLng: 170, MaxLat: 88, MaxLng: 178}

	got := b.Pan(1, 1)
	if got.MaxLat != 90 || got.MaxLng != 180 {
		t.Fatalf("Pan clamped box = %+v, want top-right at 90,180", got)
	}
	if got.MaxLat-got.MinLat != 8 || got.MaxLng-got.MinLng != 8 {
		t.Fatalf("Pan changed box size: %+v", got)
	}
}

func TestBounds_PanHalfStep(t *testing.T) {
	b := Bounds{MinLat: 46, MinLng: -122, MaxLat: 47, MaxLng: -121}
	got := b.Pan(0.5, -0.5)
	want := Bounds{MinLat: 45.5, MinLng: -121.5, MaxLat: 46.5, MaxLng: -120.5}
	if got != want {
		t.Fatalf("Pan = %+v, want %+v", got, want)
	}
}

func TestBounds_ContainsAndCenter(t *testing.T) {
	b := Around(Point{Lat: 46.85, Lng: -121.76}, 0.5)
	if !b.Valid() {
		t.Fatalf("Around produced invalid box %+v", b)
	}
	if !b.Contains(Point{Lat: 46.85, Lng: -121.76}) {
		t.Fatalf("box %+v should contain its centre", b)
	}
	if b.Contains(Point{Lat: 48, Lng: -121.76}) {
		t.Fatalf("box %+v should not contain a point a degree north", b)
	}
	c := b.Center()
	if math.Abs(c.Lat-46.85) > 1e-9 || math.Abs(c.Lng+121.76) > 1e-9 {
		t.Fatalf("Center = %v, want 46.85,-121.76", c)
	}
}

func TestBounds_ZoomIgnoresNonPositiveFactor(t *testing.T) {
	b := Bounds{MinLat: 0, MinLng: 0, MaxLat: 2, MaxLng: 2}
	if got := b.Zoom(0); got != b {
		t.Fatalf("Zoom(0) = %+v, want unchanged", got)
	}
	got := b.Zoom(0.5)
	want := Bounds{MinLat: 0.5, MinLng: 0.5, MaxLat: 1.5, MaxLng: 1.5}
	if got != want {
		t.Fatalf("Zoom(0.5) = %+v, want %+v", got, want)
	}
}

package pathquest

import (
	"strings"
	"time"

	"github.com/five82/pathquest/internal/geo"
)

const pathquestTimestampLayout = "2006-01-02 15:04:05"

// Peak mirrors a peak record returned by the PathQuest API.
type Peak struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name"`
	Lat          float64  `json:"lat" validate:"latitude"`
	Lng          float64  `json:"lng" validate:"longitude"`
	Altitude     *float64 `json:"altitude,omitempty" validate:"omitempty,gte=-500,lte=9000"`
	Country      string   `json:"country,omitempty"`
	State        string   `json:"state,omitempty"`
	County       string   `json:"county,omitempty"`
	IsSummitted  bool     `json:"isSummitted"`
	IsFavorited  bool     `json:"isFavorited"`
	Summits      int      `json:"summits,omitempty" validate:"gte=0"`
	LastSummitAt string   `json:"lastSummitAt,omitempty"`
}

// Point returns the peak's coordinate.
func (p Peak) Point() geo.Point {
	return geo.Point{Lat: p.Lat, Lng: p.Lng}
}

// DisplayName returns the name or a placeholder for unnamed peaks.
func (p Peak) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Unnamed peak"
}

// Locality joins the non-empty locality fields, most specific first.
func (p Peak) Locality() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.County, p.State, p.Country} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// AltitudeOr returns the altitude in meters or fallback when unknown.
func (p Peak) AltitudeOr(fallback float64) float64 {
	if p.Altitude == nil {
		return fallback
	}
	return *p.Altitude
}

// ParsedLastSummitAt returns the parsed LastSummitAt timestamp.
func (p Peak) ParsedLastSummitAt() time.Time {
	return parseTime(p.LastSummitAt)
}

// SearchQuery configures /api/peaks/search requests. A zero Bounds searches
// by text only.
type SearchQuery struct {
	Bounds geo.Bounds
	Text   string
	Limit  int
	Page   int
}

// IsZero reports whether the query has neither a box nor text.
func (q SearchQuery) IsZero() bool {
	return q.Bounds.IsZero() && strings.TrimSpace(q.Text) == ""
}

// SearchResponse mirrors /api/peaks/search.
type SearchResponse struct {
	Peaks []Peak `json:"peaks"`
}

// FavoriteRequest is the body of POST /api/peaks/{id}/favorite.
type FavoriteRequest struct {
	NewValue bool `json:"newValue"`
}

// FavoriteResponse mirrors the favorite toggle result.
type FavoriteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(pathquestTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// Package layers projects the peak partitions onto two named point-feature
// layers of a rendering surface.
package layers

import (
	"encoding/json"
	"slices"

	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/state"
)

// Layer names as registered on the rendering surface.
const (
	PeaksLayer         = "peaks"
	FavoritePeaksLayer = "favoritePeaks"
)

// Property keys carried in each feature's property bag.
const (
	PropID        = "id"
	PropName      = "name"
	PropAltitude  = "altitude"
	PropFavorited = "isFavorited"
	PropSummitted = "isSummitted"
	PropLocality  = "locality"
)

// ForPartition returns the layer that renders a partition.
func ForPartition(p state.Partition) string {
	if p == state.Favorited {
		return FavoritePeaksLayer
	}
	return PeaksLayer
}

// Geometry is a GeoJSON point; Coordinates is [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Point returns the geometry as a coordinate.
func (g Geometry) Point() geo.Point {
	return geo.Point{Lat: g.Coordinates[1], Lng: g.Coordinates[0]}
}

// Feature is a GeoJSON point feature.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Favorited reads the favorite flag from the property bag.
func (f Feature) Favorited() bool {
	v, _ := f.Properties[PropFavorited].(bool)
	return v
}

// Name reads the display name from the property bag.
func (f Feature) Name() string {
	v, _ := f.Properties[PropName].(string)
	return v
}

// Altitude reads the altitude in meters, if present.
func (f Feature) Altitude() (float64, bool) {
	v, ok := f.Properties[PropAltitude].(float64)
	return v, ok
}

// withFavorited returns a copy with only the favorite flag changed.
func (f Feature) withFavorited(v bool) Feature {
	props := make(map[string]any, len(f.Properties))
	for k, val := range f.Properties {
		props[k] = val
	}
	props[PropFavorited] = v
	f.Properties = props
	return f
}

// FromPeak builds the feature rendered for a peak.
func FromPeak(p pathquest.Peak) Feature {
	props := map[string]any{
		PropID:        p.ID,
		PropName:      p.DisplayName(),
		PropFavorited: p.IsFavorited,
		PropSummitted: p.IsSummitted,
	}
	if p.Altitude != nil {
		props[PropAltitude] = *p.Altitude
	}
	if loc := p.Locality(); loc != "" {
		props[PropLocality] = loc
	}
	return Feature{
		Type: "Feature",
		ID:   p.ID,
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: [2]float64{p.Lng, p.Lat},
		},
		Properties: props,
	}
}

// FromPeaks maps FromPeak over a slice.
func FromPeaks(peaks []pathquest.Peak) []Feature {
	out := make([]Feature, 0, len(peaks))
	for _, p := range peaks {
		out = append(out, FromPeak(p))
	}
	return out
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Features []Feature
}

// MarshalJSON encodes the collection as GeoJSON.
func (c FeatureCollection) MarshalJSON() ([]byte, error) {
	features := c.Features
	if features == nil {
		features = []Feature{}
	}
	return json.Marshal(struct {
		Type     string    `json:"type"`
		Features []Feature `json:"features"`
	}{Type: "FeatureCollection", Features: features})
}

// UnmarshalJSON decodes a GeoJSON feature collection.
func (c *FeatureCollection) UnmarshalJSON(data []byte) error {
	var raw struct {
		Features []Feature `json:"features"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Features = raw.Features
	return nil
}

// Surface is the part of a rendering surface the projection drives.
type Surface interface {
	LayerFeatures(layer string) []Feature
	SetLayerFeatures(layer string, features []Feature)
}

// Projection keeps a surface's two peak layers in step with the store.
type Projection struct {
	surface Surface
}

// NewProjection binds a projection to a surface.
func NewProjection(surface Surface) *Projection {
	return &Projection{surface: surface}
}

// Reset replaces both layers wholesale, as after a viewport reload.
func (p *Projection) Reset(unfavorited, favorited []pathquest.Peak) {
	p.surface.SetLayerFeatures(PeaksLayer, FromPeaks(unfavorited))
	p.surface.SetLayerFeatures(FavoritePeaksLayer, FromPeaks(favorited))
}

// Move takes the feature for id out of the from layer, sets its favorite
// flag, and prepends it to the to layer. Both layers are reset in full.
// It reports false, leaving both layers untouched, when id is not in from.
func (p *Projection) Move(id string, from, to state.Partition) bool {
	fromLayer, toLayer := ForPartition(from), ForPartition(to)
	src := slices.Clone(p.surface.LayerFeatures(fromLayer))
	i := slices.IndexFunc(src, func(f Feature) bool { return f.ID == id })
	if i < 0 {
		return false
	}
	moved := src[i].withFavorited(to == state.Favorited)
	src = slices.Delete(src, i, i+1)

	dst := p.surface.LayerFeatures(toLayer)
	next := make([]Feature, 0, len(dst)+1)
	next = append(next, moved)
	next = append(next, dst...)

	p.surface.SetLayerFeatures(fromLayer, src)
	p.surface.SetLayerFeatures(toLayer, next)
	return true
}

// Mirrors reports whether the layers hold exactly the given partitions'
// identifiers, ignoring order.
func (p *Projection) Mirrors(unfavorited, favorited []pathquest.Peak) bool {
	return sameIDs(p.surface.LayerFeatures(PeaksLayer), unfavorited) &&
		sameIDs(p.surface.LayerFeatures(FavoritePeaksLayer), favorited)
}

func sameIDs(features []Feature, peaks []pathquest.Peak) bool {
	if len(features) != len(peaks) {
		return false
	}
	want := make(map[string]int, len(peaks))
	for _, pk := range peaks {
		want[pk.ID]++
	}
	for _, f := range features {
		if want[f.ID] == 0 {
			return false
		}
		want[f.ID]--
	}
	return true
}

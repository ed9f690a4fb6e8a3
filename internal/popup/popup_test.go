package popup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/units"
)

// fakeSurface counts open popups by anchor coordinate.
type fakeSurface struct {
	open   map[geo.Point]Content
	closes int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{open: map[geo.Point]Content{}}
}

func (f *fakeSurface) OpenPopup(c Content) { f.open[c.At] = c }

func (f *fakeSurface) ClosePopup(at geo.Point) {
	f.closes++
	delete(f.open, at)
}

func TestBuild_LabelsAndAltitude(t *testing.T) {
	alt := 1000.0
	peak := pathquest.Peak{ID: "p1", Name: "Test Peak", Lat: 1, Lng: 2, Altitude: &alt, State: "WA", Country: "US"}

	c := Build(peak, units.Imperial)
	assert.Equal(t, "Test Peak", c.Name)
	assert.Equal(t, "3,281 ft", c.Altitude)
	assert.Equal(t, "WA, US", c.Locality)
	assert.Equal(t, LabelFavorite, c.ActionLabel)
	assert.Equal(t, ToggleRequest{PeakID: "p1", NewValue: true, OpenPopup: true}, c.Action())

	peak.IsFavorited = true
	peak.Altitude = nil
	c = Build(peak, units.Metric)
	assert.Empty(t, c.Altitude)
	assert.Equal(t, LabelUnfavorite, c.ActionLabel)
	assert.False(t, c.Action().NewValue)
}

func TestPresenter_ShowKeepsSinglePopup(t *testing.T) {
	surface := newFakeSurface()
	p := NewPresenter(surface)

	a := Build(pathquest.Peak{ID: "a", Lat: 1, Lng: 1}, units.Metric)
	b := Build(pathquest.Peak{ID: "b", Lat: 2, Lng: 2}, units.Metric)

	p.Show(a)
	p.Show(b)

	require.Len(t, surface.open, 1)
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.PeakID)
	assert.True(t, p.IsShowing("b"))
	assert.False(t, p.IsShowing("a"))
}

func TestPresenter_ReplaceAtSameCoordinate(t *testing.T) {
	surface := newFakeSurface()
	p := NewPresenter(surface)

	peak := pathquest.Peak{ID: "a", Lat: 1, Lng: 1}
	p.Show(Build(peak, units.Metric))

	peak.IsFavorited = true
	p.Replace(Build(peak, units.Metric))

	require.Len(t, surface.open, 1)
	assert.Equal(t, LabelUnfavorite, surface.open[geo.Point{Lat: 1, Lng: 1}].ActionLabel)

	other := Build(pathquest.Peak{ID: "b", Lat: 5, Lng: 5}, units.Metric)
	p.Replace(other)
	require.Len(t, surface.open, 1)
	assert.True(t, p.IsShowing("b"))
}

func TestPresenter_CloseWhenNothingOpenIsNoop(t *testing.T) {
	surface := newFakeSurface()
	p := NewPresenter(surface)

	p.Close()
	assert.Equal(t, 0, surface.closes)

	p.Show(Build(pathquest.Peak{ID: "a"}, units.Metric))
	p.Close()
	p.Close()
	assert.Equal(t, 1, surface.closes)
	_, ok := p.Current()
	assert.False(t, ok)
}

// Package popup presents the peak detail overlay anchored on the map.
//
// A popup never acts on its own. Its action emits a ToggleRequest which the
// owner hands to the favorite coordinator; the coordinator then tells the
// presenter what to show next.
package popup

import (
	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/units"
)

// Action labels.
const (
	LabelFavorite   = "Favorite"
	LabelUnfavorite = "Unfavorite"
)

// ToggleRequest asks for a peak's favorite flag to be set to NewValue.
type ToggleRequest struct {
	PeakID    string
	NewValue  bool
	OpenPopup bool
}

// Content is everything a surface needs to draw a popup.
type Content struct {
	PeakID      string
	Name        string
	At          geo.Point
	Altitude    string
	Locality    string
	Favorited   bool
	Summitted   bool
	ActionLabel string
}

// Build renders a peak's popup content for the given unit system.
func Build(peak pathquest.Peak, system units.System) Content {
	label := LabelFavorite
	if peak.IsFavorited {
		label = LabelUnfavorite
	}
	return Content{
		PeakID:      peak.ID,
		Name:        peak.DisplayName(),
		At:          peak.Point(),
		Altitude:    units.FormatOptionalAltitude(peak.Altitude, system),
		Locality:    peak.Locality(),
		Favorited:   peak.IsFavorited,
		Summitted:   peak.IsSummitted,
		ActionLabel: label,
	}
}

// Action is the event emitted when the popup's button is pressed.
func (c Content) Action() ToggleRequest {
	return ToggleRequest{PeakID: c.PeakID, NewValue: !c.Favorited, OpenPopup: true}
}

// Surface is the part of a rendering surface that hosts popups.
type Surface interface {
	OpenPopup(c Content)
	ClosePopup(at geo.Point)
}

// Presenter keeps at most one popup open on a surface.
type Presenter struct {
	surface Surface
	current *Content
}

// NewPresenter binds a presenter to a surface.
func NewPresenter(surface Surface) *Presenter {
	return &Presenter{surface: surface}
}

// Show closes whatever popup is open and opens c.
func (p *Presenter) Show(c Content) {
	p.Close()
	p.surface.OpenPopup(c)
	p.current = &c
}

// Replace removes any popup anchored at c's coordinate, then opens c. A
// popup for a different peak elsewhere is closed as well, so only one popup
// is ever open.
func (p *Presenter) Replace(c Content) {
	p.surface.ClosePopup(c.At)
	if p.current != nil && p.current.At != c.At {
		p.surface.ClosePopup(p.current.At)
	}
	p.current = nil
	p.surface.OpenPopup(c)
	p.current = &c
}

// Close closes the open popup. Closing when nothing is open is a no-op.
func (p *Presenter) Close() {
	if p.current == nil {
		return
	}
	p.surface.ClosePopup(p.current.At)
	p.current = nil
}

// Current returns the open popup, if any.
func (p *Presenter) Current() (Content, bool) {
	if p.current == nil {
		return Content{}, false
	}
	return *p.current, true
}

// IsShowing reports whether the open popup belongs to peakID.
func (p *Presenter) IsShowing(peakID string) bool {
	return p.current != nil && p.current.PeakID == peakID
}

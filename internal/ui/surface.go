package ui

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/layers"
	"github.com/five82/pathquest/internal/popup"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 4 * time.Second

// mapSurface is the terminal map: the two peak layers, the popup slot and
// the notification line. It is shared by pointer between copies of Model.
type mapSurface struct {
	mu     sync.Mutex
	layers map[string][]layers.Feature
	popup  *popup.Content

	toast      string
	toastSeq   int
	toastUntil time.Time
	now        func() time.Time
}

func newMapSurface() *mapSurface {
	return &mapSurface{
		layers: make(map[string][]layers.Feature),
		now:    time.Now,
	}
}

// LayerFeatures implements layers.Surface.
func (s *mapSurface) LayerFeatures(layer string) []layers.Feature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers[layer]
}

// SetLayerFeatures implements layers.Surface.
func (s *mapSurface) SetLayerFeatures(layer string, features []layers.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[layer] = slices.Clone(features)
}

// OpenPopup implements popup.Surface.
func (s *mapSurface) OpenPopup(c popup.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popup = &c
}

// ClosePopup implements popup.Surface. Only a popup anchored at the given
// point is removed.
func (s *mapSurface) ClosePopup(at geo.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.popup != nil && s.popup.At == at {
		s.popup = nil
	}
}

// Popup returns the popup on screen, if any.
func (s *mapSurface) Popup() (popup.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.popup == nil {
		return popup.Content{}, false
	}
	return *s.popup, true
}

// Notify shows message on the toast line. It implements favorites.Notifier.
func (s *mapSurface) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast = message
	s.toastSeq++
	s.toastUntil = s.now().Add(toastDuration)
}

// Toast returns the live notification and its sequence number.
func (s *mapSurface) Toast() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toast == "" || s.now().After(s.toastUntil) {
		return "", s.toastSeq
	}
	return s.toast, s.toastSeq
}

// ExpireToast clears the toast if seq is still the latest one.
func (s *mapSurface) ExpireToast(seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.toastSeq {
		s.toast = ""
	}
}

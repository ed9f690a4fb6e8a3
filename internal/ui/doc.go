// Package ui is the Bubble Tea front end for PathQuest.
//
// The screen is a map of the working set: a plot of peak markers inside the
// current bounding box beside a list of the same peaks. Favorites are drawn
// from the favoritePeaks layer and everything else from the peaks layer, so
// what is on screen is always what the layer projection holds.
//
// Model copies share their collaborators (store, projection, popup presenter,
// favorite coordinator, surface) by pointer. Favorite toggles are applied
// locally on the event loop, the remote call runs in a tea.Cmd, and the
// result comes back as a message that settles the change.
//
// Key bindings are listed in keys.go and shown in the "?" overlay.
package ui

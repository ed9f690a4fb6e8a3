// Package favorites coordinates optimistic favorite toggles.
//
// # Overview
//
// Favoriting a peak moves it between the two partitions of the state.Store
// and between the two peak layers on the map before the server has
// answered. If the server then reports failure the move is reversed and the
// user is told. This package implements that flow once for every screen that
// offers the action.
//
// # Lifecycle
//
//	Idle → ApplyingOptimistic → AwaitingRemote → Settled
//	                                    ↓
//	                               RollingBack → Settled
//
// The API is split in three so an event loop can keep the network call off
// its own goroutine while every state mutation stays on it:
//
//	p, err := coord.Begin(req)   // locate + optimistic apply (sync)
//	err = p.Call(ctx)            // remote call (any goroutine)
//	coord.Settle(p, err)         // commit or roll back (sync)
//
// Toggle runs the three steps in sequence for callers without an event loop.
//
// # Begin
//
//  1. Refuse if the coordinator is closed (ErrClosed) or a toggle for the
//     same peak is unsettled (ErrInFlight).
//  2. Locate the peak in the partition implied by the current value: a
//     request for NewValue=true looks in the unfavorited partition. Absent
//     peaks yield ErrNotFound and no remote call is made.
//  3. Move the feature between layers (geometry untouched, only the favorite
//     property changes), then Transfer the peak in the store, which prepends
//     and re-sorts under the store's lock.
//  4. With OpenPopup set, replace the popup with one reflecting the new
//     state. Its action button emits the next ToggleRequest.
//
// # Settle
//
// A nil error leaves the optimistic state in place. Any error, whether
// network failure, HTTP status or an explicit rejection, takes the single
// failure branch:
//
//   - Notify(FailureMessage) exactly once
//   - move the peak back in the layers and the store
//   - with OpenPopup set, replace the popup with the reverted state, unless
//     the user has since opened a popup for a different peak
//
// There is no automatic retry. If the working set was reloaded while the call
// was in flight and the peak is gone, there is nothing to roll back.
//
// # Concurrency
//
// A mutex serializes Begin and Settle, so the two partitions and the two
// layers are never observed half-moved by another coordinator call. The
// per-peak in-flight map turns a rapid double toggle into one remote call
// instead of two racing ones. Close makes late settlements no-ops so a
// response arriving after the UI is gone cannot touch state.
//
// The popup.Presenter is not itself synchronized; callers that also drive it
// directly must do so from the goroutine that calls Begin and Settle.
package favorites

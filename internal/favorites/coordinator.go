package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/pathquest/internal/layers"
	"github.com/five82/pathquest/internal/pathquest"
	"github.com/five82/pathquest/internal/popup"
	"github.com/five82/pathquest/internal/state"
	"github.com/five82/pathquest/internal/units"
)

// FailureMessage is the notification dispatched when a toggle is rolled back.
const FailureMessage = "Failed to update favorite status"

var (
	// ErrNotFound means the peak was not in the partition implied by the
	// request, usually because the working set changed underneath the user.
	ErrNotFound = errors.New("peak not in expected partition")
	// ErrInFlight means an earlier toggle for the same peak has not settled.
	ErrInFlight = errors.New("favorite toggle already in flight")
	// ErrClosed means the coordinator's owner has gone away.
	ErrClosed = errors.New("favorite coordinator closed")
)

// Remote persists favorite state.
type Remote interface {
	ToggleFavorite(ctx context.Context, peakID string, newValue bool) error
}

// Notifier receives user-visible error text. Delivery is fire-and-forget.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }

// Phase is the lifecycle position of one toggle.
type Phase int

const (
	Idle Phase = iota
	ApplyingOptimistic
	AwaitingRemote
	RollingBack
	Settled
)

func (p Phase) String() string {
	switch p {
	case ApplyingOptimistic:
		return "applying-optimistic"
	case AwaitingRemote:
		return "awaiting-remote"
	case RollingBack:
		return "rolling-back"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// Outcome reports how a settled toggle ended.
type Outcome int

const (
	// Committed means the remote call succeeded and the optimistic state stands.
	Committed Outcome = iota
	// RolledBack means the remote call failed and local state was reverted.
	RolledBack
	// Dropped means the settlement arrived after Close and was ignored.
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	default:
		return "dropped"
	}
}

// Options wires a Coordinator to its collaborators. Store, Projection,
// Popups and Remote are required.
type Options struct {
	Store      *state.Store
	Projection *layers.Projection
	Popups     *popup.Presenter
	Remote     Remote
	Notifier   Notifier
	// Units reports the current display preference for popup altitudes.
	Units  func() units.System
	Logger *zap.Logger
}

// Coordinator applies favorite toggles optimistically and reconciles them
// with the remote API.
type Coordinator struct {
	mu         sync.Mutex
	store      *state.Store
	projection *layers.Projection
	popups     *popup.Presenter
	remote     Remote
	notifier   Notifier
	units      func() units.System
	logger     *zap.Logger

	inflight map[string]*Pending
	closed   bool
}

// New validates opts and builds a Coordinator.
func New(opts Options) (*Coordinator, error) {
	switch {
	case opts.Store == nil:
		return nil, fmt.Errorf("favorites: store is required")
	case opts.Projection == nil:
		return nil, fmt.Errorf("favorites: projection is required")
	case opts.Popups == nil:
		return nil, fmt.Errorf("favorites: popup presenter is required")
	case opts.Remote == nil:
		return nil, fmt.Errorf("favorites: remote is required")
	}
	c := &Coordinator{
		store:      opts.Store,
		projection: opts.Projection,
		popups:     opts.Popups,
		remote:     opts.Remote,
		notifier:   opts.Notifier,
		units:      opts.Units,
		logger:     opts.Logger,
		inflight:   make(map[string]*Pending),
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(string) {})
	}
	if c.units == nil {
		c.units = func() units.System { return units.Imperial }
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// Pending is a toggle whose optimistic state is applied and whose remote call
// has not been settled.
type Pending struct {
	req    popup.ToggleRequest
	source state.Partition
	dest   state.Partition
	remote Remote
	phase  Phase
}

// Request returns the toggle this pending call was started for.
func (p *Pending) Request() popup.ToggleRequest { return p.req }

// Call issues the remote toggle. It touches no coordinator state and may run
// on any goroutine.
func (p *Pending) Call(ctx context.Context) error {
	return p.remote.ToggleFavorite(ctx, p.req.PeakID, p.req.NewValue)
}

// Begin locates the peak in the partition implied by req.NewValue and, if
// found, moves it to the other partition in both the store and the map
// layers. When req.OpenPopup is set the popup is rebuilt for the new state.
//
// ErrNotFound, ErrInFlight and ErrClosed are benign: nothing was changed and
// no remote call should be made.
func (c *Coordinator) Begin(req popup.ToggleRequest) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.logger.With(zap.String("peak_id", req.PeakID), zap.Bool("new_value", req.NewValue))

	if c.closed {
		return nil, ErrClosed
	}
	if _, busy := c.inflight[req.PeakID]; busy {
		log.Debug("toggle ignored, previous toggle in flight")
		return nil, ErrInFlight
	}

	source := state.PartitionFor(!req.NewValue)
	dest := source.Opposite()
	if _, part, ok := c.store.Lookup(req.PeakID); !ok || part != source {
		log.Debug("toggle ignored, peak not in source partition", zap.Stringer("source", source))
		return nil, ErrNotFound
	}

	p := &Pending{req: req, source: source, dest: dest, remote: c.remote, phase: ApplyingOptimistic}
	log.Debug("favorite transition", zap.Stringer("phase", p.phase))

	if !c.apply(p, source, dest, req.OpenPopup, true) {
		log.Debug("toggle ignored, peak left working set during apply")
		return nil, ErrNotFound
	}

	p.phase = AwaitingRemote
	c.inflight[req.PeakID] = p
	log.Debug("favorite transition", zap.Stringer("phase", p.phase))
	return p, nil
}

// Settle finishes a toggle started by Begin. A nil remoteErr keeps the
// optimistic state. Any error dispatches FailureMessage and moves the peak
// back. Settlements after Close are dropped.
func (c *Coordinator) Settle(p *Pending, remoteErr error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.logger.With(zap.String("peak_id", p.req.PeakID), zap.Bool("new_value", p.req.NewValue))

	if c.inflight[p.req.PeakID] == p {
		delete(c.inflight, p.req.PeakID)
	}
	if c.closed {
		log.Debug("settlement dropped, coordinator closed", zap.Error(remoteErr))
		return Dropped
	}
	if remoteErr == nil {
		p.phase = Settled
		log.Debug("favorite transition", zap.Stringer("phase", p.phase))
		return Committed
	}

	p.phase = RollingBack
	log.Warn("favorite toggle failed, rolling back", zap.Error(remoteErr))
	c.notifier.Notify(FailureMessage)

	showPopup := p.req.OpenPopup && (c.popups.IsShowing(p.req.PeakID) || !c.hasPopup())
	if !c.apply(p, p.dest, p.source, showPopup, false) {
		log.Debug("rollback skipped, peak no longer in destination partition")
	}

	p.phase = Settled
	log.Debug("favorite transition", zap.Stringer("phase", p.phase))
	return RolledBack
}

// Toggle runs Begin, the remote call and Settle in sequence.
func (c *Coordinator) Toggle(ctx context.Context, req popup.ToggleRequest) (Outcome, error) {
	p, err := c.Begin(req)
	if err != nil {
		return Dropped, err
	}
	return c.Settle(p, p.Call(ctx)), nil
}

// Close drops all future settlements. Begin returns ErrClosed afterwards.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// InFlight returns the number of unsettled toggles.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// Phase returns the phase of the unsettled toggle for peakID, or Idle.
func (c *Coordinator) Phase(peakID string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.inflight[peakID]; ok {
		return p.phase
	}
	return Idle
}

// apply moves the peak from one partition to the other in the layers and the
// store, then refreshes the popup. Caller holds c.mu.
func (c *Coordinator) apply(p *Pending, from, to state.Partition, showPopup, forward bool) bool {
	id := p.req.PeakID

	movedFeature := c.projection.Move(id, from, to)
	peak, ok := c.store.Transfer(id, to)
	if !ok {
		if movedFeature {
			c.projection.Move(id, to, from)
		}
		return false
	}
	if !movedFeature {
		// The layers were out of step with the store; rebuild them from it.
		c.logger.Debug("projection missing feature, resetting layers",
			zap.String("peak_id", id), zap.Bool("forward", forward))
		c.projection.Reset(c.store.Partitions())
	}
	if showPopup {
		c.popups.Replace(popup.Build(peak, c.units()))
	}
	return true
}

func (c *Coordinator) hasPopup() bool {
	_, ok := c.popups.Current()
	return ok
}

// Ensure the API client satisfies Remote at compile time.
var _ Remote = (*pathquest.Client)(nil)

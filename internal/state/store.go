package state

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/five82/pathquest/internal/geo"
	"github.com/five82/pathquest/internal/pathquest"
)

// Partition names one of the two disjoint peak collections.
type Partition int

const (
	Unfavorited Partition = iota
	Favorited
)

// PartitionFor returns the partition a peak with the given favorite flag
// belongs to.
func PartitionFor(favorited bool) Partition {
	if favorited {
		return Favorited
	}
	return Unfavorited
}

// Opposite returns the other partition.
func (p Partition) Opposite() Partition {
	if p == Favorited {
		return Unfavorited
	}
	return Favorited
}

func (p Partition) String() string {
	if p == Favorited {
		return "favorited"
	}
	return "unfavorited"
}

// Order compares two peaks for display. A nil Order keeps insertion order.
type Order func(a, b pathquest.Peak) int

// ByAltitudeDesc sorts highest first; peaks without altitude sink to the end.
func ByAltitudeDesc(a, b pathquest.Peak) int {
	return cmp.Compare(b.AltitudeOr(-1e9), a.AltitudeOr(-1e9))
}

// ByName sorts case-insensitively by display name.
func ByName(a, b pathquest.Peak) int {
	return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
}

// ByDistanceFrom sorts nearest to origin first.
func ByDistanceFrom(origin geo.Point) Order {
	return func(a, b pathquest.Peak) int {
		return cmp.Compare(geo.DistanceMeters(origin, a.Point()), geo.DistanceMeters(origin, b.Point()))
	}
}

// Snapshot is an immutable view of the loaded working set.
type Snapshot struct {
	Unfavorited         []pathquest.Peak
	Favorited           []pathquest.Peak
	Query               pathquest.SearchQuery
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when loads have failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Len returns the number of loaded peaks.
func (s Snapshot) Len() int {
	return len(s.Unfavorited) + len(s.Favorited)
}

// Store holds the client-visible peaks split by favorite status.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	order    Order
}

// Replace swaps in a freshly loaded working set. When err is non-nil the
// previous peaks are kept and the error is recorded.
func (s *Store) Replace(query pathquest.SearchQuery, peaks []pathquest.Peak, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	var unfav, fav []pathquest.Peak
	seen := make(map[string]struct{}, len(peaks))
	for _, p := range peaks {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		if p.IsFavorited {
			fav = append(fav, p)
		} else {
			unfav = append(unfav, p)
		}
	}
	s.snapshot.Unfavorited = unfav
	s.snapshot.Favorited = fav
	s.snapshot.Query = query
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	s.sortLocked()
}

// SetOrder sets the display order and reapplies it.
func (s *Store) SetOrder(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.sortLocked()
}

// Partitions returns copies of both collections.
func (s *Store) Partitions() (unfavorited, favorited []pathquest.Peak) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshot.Unfavorited), slices.Clone(s.snapshot.Favorited)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Unfavorited = slices.Clone(s.snapshot.Unfavorited)
	snap.Favorited = slices.Clone(s.snapshot.Favorited)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Lookup finds a loaded peak and reports its partition.
func (s *Store) Lookup(id string) (pathquest.Peak, Partition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, part := range []Partition{Unfavorited, Favorited} {
		if i := indexOf(s.listLocked(part), id); i >= 0 {
			return s.listLocked(part)[i], part, true
		}
	}
	return pathquest.Peak{}, Unfavorited, false
}

// MoveToFavorited removes the peak from the unfavorited collection and
// returns it. The caller inserts it into the favorited collection.
func (s *Store) MoveToFavorited(id string) (pathquest.Peak, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(Unfavorited, id)
}

// MoveToUnfavorited removes the peak from the favorited collection and
// returns it. The caller inserts it into the unfavorited collection.
func (s *Store) MoveToUnfavorited(id string) (pathquest.Peak, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(Favorited, id)
}

// Insert prepends peak to the named partition without re-sorting. No
// deduplication is performed.
func (s *Store) Insert(part Partition, peak pathquest.Peak) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prependLocked(part, peak)
}

// Transfer moves a peak into the partition to, flips its favorite flag to
// match, and reapplies the order, all under one lock. It returns the moved
// peak, or false when the peak is not in the opposite partition.
func (s *Store) Transfer(id string, to Partition) (pathquest.Peak, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peak, ok := s.removeLocked(to.Opposite(), id)
	if !ok {
		return pathquest.Peak{}, false
	}
	peak.IsFavorited = to == Favorited
	s.prependLocked(to, peak)
	s.sortLocked()
	return peak, true
}

func (s *Store) listLocked(part Partition) []pathquest.Peak {
	if part == Favorited {
		return s.snapshot.Favorited
	}
	return s.snapshot.Unfavorited
}

func (s *Store) setLocked(part Partition, peaks []pathquest.Peak) {
	if part == Favorited {
		s.snapshot.Favorited = peaks
		return
	}
	s.snapshot.Unfavorited = peaks
}

func (s *Store) removeLocked(part Partition, id string) (pathquest.Peak, bool) {
	list := s.listLocked(part)
	i := indexOf(list, id)
	if i < 0 {
		return pathquest.Peak{}, false
	}
	peak := list[i]
	s.setLocked(part, slices.Delete(slices.Clone(list), i, i+1))
	return peak, true
}

func (s *Store) prependLocked(part Partition, peak pathquest.Peak) {
	list := s.listLocked(part)
	next := make([]pathquest.Peak, 0, len(list)+1)
	next = append(next, peak)
	next = append(next, list...)
	s.setLocked(part, next)
}

func (s *Store) sortLocked() {
	if s.order == nil {
		return
	}
	slices.SortStableFunc(s.snapshot.Unfavorited, s.order)
	slices.SortStableFunc(s.snapshot.Favorited, s.order)
}

func indexOf(peaks []pathquest.Peak, id string) int {
	return slices.IndexFunc(peaks, func(p pathquest.Peak) bool { return p.ID == id })
}

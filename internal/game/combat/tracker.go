package combat

import (
	"slices"

	"github.com/HexColors60/RadMud/internal/game/entity"
)

// Entry is one hostile in a tracker.
type Entry struct {
	Opponent entity.ID
	Aggro    uint
}

// Tracker is the ordered list of a character's opponents, highest aggro
// first. It also remembers the focused and the aimed target.
//
// Invariant: each opponent appears at most once.
type Tracker struct {
	entries    []Entry
	predefined entity.ID
	aimed      entity.ID
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add registers opponent with the given aggro.
//
// Postcondition: Returns false and changes nothing when opponent is already tracked.
func (t *Tracker) Add(opponent entity.ID, aggro uint) bool {
	if t.Has(opponent) {
		return false
	}
	t.entries = append(t.entries, Entry{Opponent: opponent, Aggro: aggro})
	t.sort()
	return true
}

// Remove drops opponent and forgets it as focused or aimed target.
//
// Postcondition: Returns true if opponent was tracked.
func (t *Tracker) Remove(opponent entity.ID) bool {
	if t.predefined == opponent {
		t.predefined = 0
	}
	if t.aimed == opponent {
		t.aimed = 0
	}
	i := t.index(opponent)
	if i < 0 {
		return false
	}
	t.entries = slices.Delete(t.entries, i, i+1)
	return true
}

// Has reports whether opponent is tracked.
func (t *Tracker) Has(opponent entity.ID) bool {
	return t.index(opponent) >= 0
}

// MoveToTop raises the aggro of opponent above every other entry.
//
// Postcondition: Returns false when opponent is not tracked.
func (t *Tracker) MoveToTop(opponent entity.ID) bool {
	i := t.index(opponent)
	if i < 0 {
		return false
	}
	if i == 0 {
		return true
	}
	t.entries[i].Aggro = t.entries[0].Aggro + 1
	t.sort()
	return true
}

// Focus makes opponent the predefined target and moves it to the top.
func (t *Tracker) Focus(opponent entity.ID) bool {
	if !t.MoveToTop(opponent) {
		return false
	}
	t.predefined = opponent
	return true
}

// Entries returns a copy of the entries in order.
func (t *Tracker) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Opponents returns the tracked IDs in order.
func (t *Tracker) Opponents() []entity.ID {
	out := make([]entity.ID, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Opponent
	}
	return out
}

// Top returns the highest-aggro opponent.
func (t *Tracker) Top() (entity.ID, bool) {
	if len(t.entries) == 0 {
		return 0, false
	}
	return t.entries[0].Opponent, true
}

// Len returns the number of tracked opponents.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Empty reports whether no opponent is tracked.
func (t *Tracker) Empty() bool {
	return len(t.entries) == 0
}

// Clear forgets every opponent and target.
func (t *Tracker) Clear() {
	t.entries = nil
	t.predefined = 0
	t.aimed = 0
}

// Predefined returns the focused target, zero when none.
func (t *Tracker) Predefined() entity.ID {
	return t.predefined
}

// SetPredefined sets the focused target without reordering.
func (t *Tracker) SetPredefined(id entity.ID) {
	t.predefined = id
}

// Aimed returns the aimed target, zero when none.
func (t *Tracker) Aimed() entity.ID {
	return t.aimed
}

// SetAimed sets the aimed target.
func (t *Tracker) SetAimed(id entity.ID) {
	t.aimed = id
}

func (t *Tracker) index(opponent entity.ID) int {
	return slices.IndexFunc(t.entries, func(e Entry) bool { return e.Opponent == opponent })
}

func (t *Tracker) sort() {
	slices.SortStableFunc(t.entries, func(a, b Entry) int {
		switch {
		case a.Aggro > b.Aggro:
			return -1
		case a.Aggro < b.Aggro:
			return 1
		}
		return 0
	})
}

package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/HexColors60/RadMud/internal/game/combat"
	"github.com/HexColors60/RadMud/internal/game/entity"
)

func TestTracker_AddIsUnique(t *testing.T) {
	tr := combat.NewTracker()
	assert.True(t, tr.Empty())
	assert.True(t, tr.Add(1, 0))
	assert.False(t, tr.Add(1, 5))
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.Has(1))
	assert.False(t, tr.Has(2))
}

func TestTracker_OrderByAggroThenArrival(t *testing.T) {
	tr := combat.NewTracker()
	tr.Add(1, 0)
	tr.Add(2, 0)
	tr.Add(3, 4)
	assert.Equal(t, []entity.ID{3, 1, 2}, tr.Opponents())
	top, ok := tr.Top()
	assert.True(t, ok)
	assert.Equal(t, entity.ID(3), top)
}

func TestTracker_FocusMovesToTopAndPredefines(t *testing.T) {
	tr := combat.NewTracker()
	tr.Add(1, 0)
	tr.Add(2, 0)
	tr.Add(3, 0)

	assert.True(t, tr.Focus(3))
	assert.Equal(t, []entity.ID{3, 1, 2}, tr.Opponents())
	assert.Equal(t, entity.ID(3), tr.Predefined())

	assert.True(t, tr.MoveToTop(2))
	assert.Equal(t, []entity.ID{2, 3, 1}, tr.Opponents())
	assert.Equal(t, entity.ID(3), tr.Predefined(), "moving another entry keeps the focus")

	assert.False(t, tr.Focus(9))
	assert.True(t, tr.MoveToTop(2), "already on top")
}

func TestTracker_RemoveForgetsTargets(t *testing.T) {
	tr := combat.NewTracker()
	tr.Add(1, 0)
	tr.Add(2, 0)
	tr.Focus(2)
	tr.SetAimed(2)

	assert.True(t, tr.Remove(2))
	assert.Zero(t, tr.Predefined())
	assert.Zero(t, tr.Aimed())
	assert.False(t, tr.Remove(2))
	assert.Equal(t, []entity.ID{1}, tr.Opponents())

	tr.SetAimed(1)
	tr.Clear()
	assert.True(t, tr.Empty())
	assert.Zero(t, tr.Aimed())
	_, ok := tr.Top()
	assert.False(t, ok)
}

func TestTracker_PropertyUniqueAndSorted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := combat.NewTracker()
		ops := rapid.IntRange(1, 50).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			id := entity.ID(rapid.IntRange(1, 8).Draw(t, "id"))
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				tr.Add(id, uint(rapid.IntRange(0, 5).Draw(t, "aggro")))
			case 1:
				tr.Remove(id)
			case 2:
				tr.Focus(id)
			case 3:
				tr.MoveToTop(id)
			}
			seen := map[entity.ID]bool{}
			entries := tr.Entries()
			for j, e := range entries {
				if seen[e.Opponent] {
					t.Fatalf("opponent %d listed twice", e.Opponent)
				}
				seen[e.Opponent] = true
				if j > 0 && entries[j-1].Aggro < e.Aggro {
					t.Fatalf("entries not ordered by aggro: %v", entries)
				}
			}
			if p := tr.Predefined(); p != 0 && !seen[p] {
				t.Fatalf("predefined %d not tracked", p)
			}
		}
	})
}

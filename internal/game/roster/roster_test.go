package roster_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/combat"
	"github.com/cory-johannsen/qhauntz/internal/game/roster"
	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

func sheet(t testing.TB, id, templateID string) *character.Sheet {
	t.Helper()
	tr, err := stress.NewTrack(1, 2, 3, 4, 5, 6, 7, 8)
	require.NoError(t, err)
	return &character.Sheet{ID: id, TemplateID: templateID, Name: id, Resolve: *tr}
}

func TestRoster_AddGetRemove(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet(t, "a", "sable")))
	assert.Equal(t, 1, r.Len())

	s, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)

	require.NoError(t, r.Remove("a"))
	assert.Equal(t, 0, r.Len())
	_, ok = r.Get("a")
	assert.False(t, ok)
	assert.Error(t, r.Remove("a"))
}

func TestRoster_Add_RejectsDuplicatesAndBadSheets(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet(t, "a", "")))
	assert.Error(t, r.Add(sheet(t, "a", "")))
	assert.Error(t, r.Add(nil))
	assert.Error(t, r.Add(&character.Sheet{}))
}

func TestRoster_Lookup(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet(t, "uuid-1", "sable")))

	id, ok := r.Lookup("uuid-1")
	require.True(t, ok)
	assert.Equal(t, "uuid-1", id)

	id, ok = r.Lookup("sable")
	require.True(t, ok)
	assert.Equal(t, "uuid-1", id)

	require.NoError(t, r.Remove("uuid-1"))
	_, ok = r.Lookup("sable")
	assert.False(t, ok)
}

func TestRoster_IDsSorted(t *testing.T) {
	r := roster.New()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Add(sheet(t, id, "")))
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.IDs())
}

func TestRoster_With_PropagatesError(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet(t, "a", "")))
	boom := errors.New("boom")
	assert.ErrorIs(t, r.With("a", func(*character.Sheet) error { return boom }), boom)
}

func TestRoster_With_UnknownID(t *testing.T) {
	r := roster.New()
	called := false
	err := r.With("ghost", func(*character.Sheet) error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)
}

// TestRoster_With_SerialisesPerCharacter runs many concurrent engine calls
// against two sheets; each hit of 1 fills exactly one box, so the filled count
// equals the number of calls when no update is lost.
func TestRoster_With_SerialisesPerCharacter(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet(t, "a", "")))
	require.NoError(t, r.Add(sheet(t, "b", "")))
	engine := combat.NewEngine(combat.DefaultRules(), zap.NewNop())

	const perSheet = 8
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		for i := 0; i < perSheet; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				err := r.With(id, func(s *character.Sheet) error {
					_, err := engine.ApplyDamage(s, 1, stress.Resolve)
					return err
				})
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range []string{"a", "b"} {
		s, _ := r.Get(id)
		assert.Equal(t, perSheet, s.Resolve.FilledCount(), "sheet %s", id)
	}
}

func TestProperty_RosterLenTracksAddRemove(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := roster.New()
		live := map[string]bool{}
		ops := rapid.SliceOfN(rapid.IntRange(0, 9), 1, 50).Draw(rt, "ops")
		for i, op := range ops {
			id := fmt.Sprintf("s%d", op)
			if live[id] {
				require.NoError(rt, r.Remove(id))
				delete(live, id)
			} else {
				require.NoError(rt, r.Add(&character.Sheet{ID: id}), "op %d", i)
				live[id] = true
			}
			assert.Equal(rt, len(live), r.Len())
		}
	})
}

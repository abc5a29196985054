package stress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

func mustTrack(t *testing.T, caps ...int) *stress.Track {
	t.Helper()
	tr, err := stress.NewTrack(caps...)
	require.NoError(t, err)
	return tr
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "Endurance", stress.Endurance.String())
	assert.Equal(t, "Resolve", stress.Resolve.String())
	assert.Equal(t, "Aether", stress.Aether.String())
	assert.Equal(t, "unknown", stress.Category(99).String())
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]stress.Category{
		"endurance": stress.Endurance,
		" Resolve ": stress.Resolve,
		"AETHER":    stress.Aether,
	} {
		got, err := stress.ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := stress.ParseCategory("fire")
	assert.Error(t, err)
}

func TestNewTrack_RejectsNonPositive(t *testing.T) {
	_, err := stress.NewTrack(1, 0, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, stress.ErrInvalidCapacity)
}

func TestSelect_PicksSmallestFit(t *testing.T) {
	tr := mustTrack(t, 1, 2, 3)
	i, ok := tr.Select(2)
	require.True(t, ok)
	assert.Equal(t, 2, tr.Boxes[i].Capacity)
}

func TestSelect_LargerBoxAbsorbsSmallHit(t *testing.T) {
	tr := mustTrack(t, 2, 4, 6)
	i, ok := tr.Select(3)
	require.True(t, ok)
	assert.Equal(t, 4, tr.Boxes[i].Capacity)
}

func TestSelect_SkipsFilled(t *testing.T) {
	tr := mustTrack(t, 1, 2, 3)
	tr.Fill(1)
	i, ok := tr.Select(2)
	require.True(t, ok)
	assert.Equal(t, 3, tr.Boxes[i].Capacity)
}

func TestSelect_NoneEligible(t *testing.T) {
	tr := mustTrack(t, 1, 2)
	i, ok := tr.Select(3)
	assert.False(t, ok)
	assert.Equal(t, -1, i)
}

func TestSelect_DuplicateCapacitiesAreDistinctSlots(t *testing.T) {
	tr := mustTrack(t, 2, 2)
	i, ok := tr.Select(2)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	tr.Fill(i)

	j, ok := tr.Select(2)
	require.True(t, ok)
	assert.Equal(t, 1, j)
	tr.Fill(j)

	_, ok = tr.Select(1)
	assert.False(t, ok)
	assert.Equal(t, 2, tr.FilledCount())
}

func TestSmallestFilled(t *testing.T) {
	tr := mustTrack(t, 3, 1, 2)
	_, ok := tr.SmallestFilled()
	assert.False(t, ok)

	tr.Fill(0)
	tr.Fill(2)
	i, ok := tr.SmallestFilled()
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, []int{3, 2}, tr.FilledCapacities())
}

func TestTemp_SetAndClear(t *testing.T) {
	tr := mustTrack(t)
	tr.SetTemp(1)
	assert.Equal(t, []int{1}, tr.Temp)
	tr.ClearTemp()
	assert.Empty(t, tr.Temp)
}

func TestTrack_String(t *testing.T) {
	tr := mustTrack(t, 1, 2, 3)
	tr.Fill(1)
	assert.Equal(t, "[1 (2) 3]", tr.String())
	tr.SetTemp(1)
	assert.Equal(t, "[1 (2) 3] +[1]", tr.String())
}

// TestProperty_Select_MinimalEligible verifies the selector never returns a
// filled or undersized box and that no smaller eligible box exists.
func TestProperty_Select_MinimalEligible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		caps := rapid.SliceOfN(rapid.IntRange(1, 8), 0, 8).Draw(rt, "caps")
		tr, err := stress.NewTrack(caps...)
		require.NoError(rt, err)
		for i := range tr.Boxes {
			if rapid.Bool().Draw(rt, "filled") {
				tr.Fill(i)
			}
		}
		damage := rapid.IntRange(1, 9).Draw(rt, "damage")

		idx, ok := tr.Select(damage)
		if !ok {
			for _, b := range tr.Boxes {
				assert.False(rt, !b.Filled && b.Capacity >= damage, "eligible box missed")
			}
			return
		}
		chosen := tr.Boxes[idx]
		assert.False(rt, chosen.Filled)
		assert.GreaterOrEqual(rt, chosen.Capacity, damage)
		for _, b := range tr.Boxes {
			if !b.Filled && b.Capacity >= damage {
				assert.LessOrEqual(rt, chosen.Capacity, b.Capacity)
			}
		}
	})
}

func TestConsequences_OccupyAndClear(t *testing.T) {
	var c stress.Consequences
	assert.True(t, c.Free(stress.Resolve))

	c.Occupy(stress.Resolve, "")
	assert.False(t, c.Free(stress.Resolve))
	assert.Equal(t, "Default Mild Resolve Consequence", c.Label(stress.Resolve))

	c.Occupy(stress.Aether, "Singed fingers")
	assert.Equal(t, "Singed fingers", c.Aether)
	assert.Equal(t, []stress.Category{stress.Resolve, stress.Aether}, c.Occupied())

	c.Clear(stress.Resolve)
	assert.True(t, c.Free(stress.Resolve))
	assert.Equal(t, []stress.Category{stress.Aether}, c.Occupied())
}

func TestConsequences_UnknownCategory(t *testing.T) {
	var c stress.Consequences
	c.Occupy(stress.Category(7), "x")
	assert.False(t, c.Free(stress.Category(7)))
	assert.Equal(t, "", c.Label(stress.Category(7)))
	assert.Empty(t, c.Occupied())
}

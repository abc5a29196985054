package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

// Recovery reports the effect of one Tend call.
type Recovery struct {
	// Shifts is the healing budget supplied.
	Shifts int
	// Remaining is the budget left unspent. Always >= 0.
	Remaining int
	// ConsequenceCleared is true when a mild consequence was healed.
	ConsequenceCleared bool
	// BoxesCleared lists the capacities of healed boxes in healing order.
	BoxesCleared []int
}

// Tend heals cat with a single budget of shifts.
//
// First, if shifts >= MildConsequenceHealCost and cat's mild consequence is
// occupied, it is cleared for that cost; at most one per call. Then the
// smallest filled box of cat's track is cleared for its capacity, repeatedly,
// until the budget cannot pay for the smallest remaining filled box. This is
// greedy smallest-first, not a best-fit subset.
//
// Only Endurance and Resolve are tended; Aether heals nothing.
//
// Precondition: shifts >= 0.
// Postcondition: Remaining >= 0 and Remaining + cost of everything cleared == shifts;
// the Aether bonus track is refreshed. On error sheet is unchanged.
func (e *Engine) Tend(sheet *character.Sheet, cat stress.Category, shifts int) (Recovery, error) {
	if sheet == nil {
		return Recovery{}, e.noSheet("tend")
	}
	if shifts < 0 {
		return Recovery{}, ErrNegativeAmount
	}
	r := Recovery{Shifts: shifts, Remaining: shifts}
	defer e.RefreshBonusTrack(sheet)

	if cat != stress.Endurance && cat != stress.Resolve {
		return r, nil
	}

	cost := e.rules.MildConsequenceHealCost
	if r.Remaining >= cost && !sheet.Consequences.Free(cat) {
		sheet.Consequences.Clear(cat)
		r.Remaining -= cost
		r.ConsequenceCleared = true
		e.logger.Debug("mild consequence healed",
			zap.String("sheet", sheet.ID),
			zap.Stringer("category", cat),
		)
	}

	track := sheet.Track(cat)
	for r.Remaining > 0 {
		i, ok := track.SmallestFilled()
		if !ok {
			break
		}
		capacity := track.Boxes[i].Capacity
		if capacity > r.Remaining {
			break
		}
		track.Clear(i)
		r.Remaining -= capacity
		r.BoxesCleared = append(r.BoxesCleared, capacity)
	}

	e.logger.Debug("tend complete",
		zap.String("sheet", sheet.ID),
		zap.Stringer("category", cat),
		zap.Ints("boxes_cleared", r.BoxesCleared),
		zap.Int("remaining", r.Remaining),
	)
	return r, nil
}

// RefreshBonusTrack recomputes the Aether bonus boxes from scratch: cleared,
// then set to a single box of BonusBoxCapacity when Resolve and Endurance
// together have at least BonusTrackThreshold filled boxes.
//
// Postcondition: len(sheet.Aether.Temp) is 1 iff the combined fill count
// reaches the threshold, 0 otherwise.
func (e *Engine) RefreshBonusTrack(sheet *character.Sheet) {
	if sheet == nil {
		return
	}
	sheet.Aether.ClearTemp()
	if sheet.Resolve.FilledCount()+sheet.Endurance.FilledCount() >= e.rules.BonusTrackThreshold {
		sheet.Aether.SetTemp(e.rules.BonusBoxCapacity)
	}
}

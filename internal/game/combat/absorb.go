package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

// Stage identifies where a hit came to rest.
type Stage int

const (
	// StageNone means there was no damage to absorb.
	StageNone Stage = iota
	// StageResolve means a Resolve box absorbed the hit.
	StageResolve
	// StageEndurance means an Endurance box absorbed the hit.
	StageEndurance
	// StageConsequence means a mild consequence absorbed the remainder.
	StageConsequence
	// StageTakenOut means damage remained after every stage.
	StageTakenOut
)

// String returns a human-readable stage label.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageResolve:
		return "resolve"
	case StageEndurance:
		return "endurance"
	case StageConsequence:
		return "consequence"
	case StageTakenOut:
		return "taken out"
	default:
		return "unknown"
	}
}

// Absorption reports how one hit was absorbed.
type Absorption struct {
	// Damage is the incoming hit in shifts.
	Damage int
	// Category is the damage category the hit was tagged with.
	Category stress.Category
	// Stage is the last stage reached.
	Stage Stage
	// Box is the index of the filled box in the Resolve or Endurance track; -1 if none.
	Box int
	// Capacity is the filled box's capacity; 0 if none.
	Capacity int
	// ConsequenceTaken is true when a consequence slot was occupied.
	ConsequenceTaken bool
	// Consequence is the occupied slot; valid only when ConsequenceTaken.
	Consequence stress.Category
	// Leftover is the damage nothing could absorb. Always >= 0.
	Leftover int
	// TakenOut is true iff Leftover > 0.
	TakenOut bool
}

// Absorbed reports whether the whole hit was absorbed.
func (a Absorption) Absorbed() bool { return a.Leftover == 0 }

// ApplyDamage absorbs a hit of damage shifts into sheet. Stages run in fixed
// order and stop at the first that absorbs the hit:
//  1. the smallest Resolve box that fits the whole hit,
//  2. the smallest Endurance box that fits the whole hit,
//  3. one mild consequence, which reduces the hit by MildConsequenceShifts,
//  4. otherwise the character is taken out with the remaining damage.
//
// The order is the same for every category; category only steers stage 3.
//
// Precondition: damage >= 0.
// Postcondition: At most one box is filled and at most one consequence slot is
// occupied; the Aether bonus track is refreshed. On error sheet is unchanged.
func (e *Engine) ApplyDamage(sheet *character.Sheet, damage int, cat stress.Category) (Absorption, error) {
	if sheet == nil {
		return Absorption{}, e.noSheet("apply_damage")
	}
	if damage < 0 {
		return Absorption{}, ErrNegativeAmount
	}
	a := Absorption{Damage: damage, Category: cat, Box: -1}
	defer e.RefreshBonusTrack(sheet)

	if damage == 0 {
		return a, nil
	}

	log := e.logger.With(zap.String("sheet", sheet.ID), zap.Int("damage", damage), zap.Stringer("category", cat))

	for _, stage := range []struct {
		stage Stage
		track *stress.Track
	}{
		{StageResolve, &sheet.Resolve},
		{StageEndurance, &sheet.Endurance},
	} {
		if i, ok := stage.track.Select(damage); ok {
			stage.track.Fill(i)
			a.Stage = stage.stage
			a.Box = i
			a.Capacity = stage.track.Boxes[i].Capacity
			log.Debug("stress box filled",
				zap.Stringer("stage", stage.stage),
				zap.Int("capacity", a.Capacity),
			)
			return a, nil
		}
	}

	remaining, slot, ok := e.TakeConsequence(sheet, damage, cat)
	if ok {
		a.ConsequenceTaken = true
		a.Consequence = slot
	}
	if remaining <= 0 {
		a.Stage = StageConsequence
		return a, nil
	}

	a.Stage = StageTakenOut
	a.Leftover = remaining
	a.TakenOut = true
	log.Warn("character taken out", zap.Int("leftover", remaining))
	e.hooks.TakenOut(sheet, a)
	return a, nil
}

// TakeConsequence occupies one free mild consequence slot and returns the
// damage it leaves. Slot priority, first match wins:
//  1. Resolve, when cat is Resolve,
//  2. Endurance, when cat is Endurance,
//  3. Aether, for any category.
//
// The slot always absorbs MildConsequenceShifts, so remaining may be negative.
//
// Precondition: sheet must not be nil.
// Postcondition: If ok, exactly one previously free slot is occupied and
// remaining == damage - MildConsequenceShifts; otherwise sheet is unchanged
// and remaining == damage.
func (e *Engine) TakeConsequence(sheet *character.Sheet, damage int, cat stress.Category) (remaining int, slot stress.Category, ok bool) {
	if sheet == nil {
		return damage, 0, false
	}
	c := &sheet.Consequences
	switch {
	case cat == stress.Resolve && c.Free(stress.Resolve):
		slot = stress.Resolve
	case cat == stress.Endurance && c.Free(stress.Endurance):
		slot = stress.Endurance
	case c.Free(stress.Aether):
		slot = stress.Aether
	default:
		e.logger.Warn("no free mild consequence slot",
			zap.String("sheet", sheet.ID),
			zap.Int("damage", damage),
			zap.Stringer("category", cat),
		)
		return damage, 0, false
	}
	c.Occupy(slot, stress.DefaultLabel(slot))
	remaining = damage - e.rules.MildConsequenceShifts
	e.logger.Debug("mild consequence taken",
		zap.String("sheet", sheet.ID),
		zap.Stringer("slot", slot),
		zap.Int("remaining", remaining),
	)
	return remaining, slot, true
}

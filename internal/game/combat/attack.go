package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

// HitOutcome is the result tier of a magical attack's first roll.
type HitOutcome int

const (
	Misfire HitOutcome = iota
	Miss
	Hit
	// CritSmall adds 25% damage.
	CritSmall
	// CritBig adds 50% damage.
	CritBig
	// CritStyle adds 50% damage plus an overcharge advantage.
	CritStyle
)

// String returns a human-readable outcome label.
func (o HitOutcome) String() string {
	switch o {
	case Misfire:
		return "misfire"
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	case CritSmall:
		return "crit"
	case CritBig:
		return "crit+"
	case CritStyle:
		return "crit with style"
	default:
		return "unknown"
	}
}

// Landed reports whether the outcome proceeds to the damage roll.
func (o HitOutcome) Landed() bool { return o >= Hit && o <= CritStyle }

// misfireOffset is subtracted from abs(result) to give misfire self-damage.
const misfireOffset = 3

// OutcomeFor maps a first-roll result to its outcome on the hit chart:
//
//	<= -4  misfire
//	-3..-2 miss
//	-1..1  hit
//	2      crit (+25%)
//	3      crit+ (+50%)
//	>= 4   crit with style (+50%)
func OutcomeFor(result int) HitOutcome {
	switch {
	case result <= -4:
		return Misfire
	case result <= -2:
		return Miss
	case result <= 1:
		return Hit
	case result == 2:
		return CritSmall
	case result == 3:
		return CritBig
	default:
		return CritStyle
	}
}

// Multiplier returns the damage multiplier for o as num/den.
//
// Postcondition: Returns (0, 1) for outcomes that do not land.
func Multiplier(o HitOutcome) (num, den int) {
	switch o {
	case CritStyle, CritBig:
		return 3, 2
	case CritSmall:
		return 5, 4
	case Hit:
		return 1, 1
	default:
		return 0, 1
	}
}

// scale multiplies base by num/den and rounds half up.
//
// Precondition: base >= 0; den > 0.
func scale(base, num, den int) int {
	return (2*base*num + den) / (2 * den)
}

// HitResult is the outcome of the first roll of a magical attack.
type HitResult struct {
	// Skill is the physical skill rolled.
	Skill string
	// Bonus is the skill bonus used; 0 when the skill is unknown.
	Bonus int
	// Roll is the supplied dice total.
	Roll int
	// Raw is Bonus + Roll.
	Raw int
	// Outcome is Raw's tier on the hit chart.
	Outcome HitOutcome
	// UnknownSkill is true when Skill was not on the sheet.
	UnknownSkill bool
	// SelfDamage is the misfire backlash in shifts; 0 unless Outcome == Misfire.
	SelfDamage int
	// Backlash is the absorption of the misfire's self-damage; nil unless Outcome == Misfire.
	Backlash *Absorption
}

// ResolveHit performs the first roll of a magical attack: skill bonus plus
// roll, mapped through OutcomeFor. A misfire deals abs(result)-3 shifts to
// sheet itself through ApplyDamage with the Aether category. An unknown skill
// counts as bonus 0 and is logged at warn level.
//
// Precondition: roll is a dice total already summed by the caller.
// Postcondition: Returns a HitResult with Raw == Bonus + Roll.
func (e *Engine) ResolveHit(sheet *character.Sheet, skill string, roll int) (HitResult, error) {
	if sheet == nil {
		return HitResult{}, e.noSheet("resolve_hit")
	}
	bonus, unknown := e.skillBonus(sheet, skill, "resolve_hit")
	h := HitResult{
		Skill:        skill,
		Bonus:        bonus,
		Roll:         roll,
		Raw:          bonus + roll,
		UnknownSkill: unknown,
	}
	h.Outcome = OutcomeFor(h.Raw)
	e.logger.Debug("hit roll",
		zap.String("sheet", sheet.ID),
		zap.String("skill", skill),
		zap.Int("bonus", bonus),
		zap.Int("roll", roll),
		zap.Int("result", h.Raw),
		zap.Stringer("outcome", h.Outcome),
	)

	switch h.Outcome {
	case Misfire:
		h.SelfDamage = abs(h.Raw) - misfireOffset
		e.logger.Warn("misfire", zap.String("sheet", sheet.ID), zap.Int("self_damage", h.SelfDamage))
		backlash, err := e.ApplyDamage(sheet, h.SelfDamage, stress.Aether)
		if err != nil {
			return h, err
		}
		h.Backlash = &backlash
		e.hooks.Misfire(sheet, h)
	case CritStyle:
		e.hooks.Overcharge(sheet, h)
	}
	return h, nil
}

// DamageRoll is the outcome of the second roll of a magical attack.
type DamageRoll struct {
	// Outcome is the first roll's outcome that drove this roll.
	Outcome HitOutcome
	// Skill is the affinity attack skill rolled; empty when the first roll did not land.
	Skill string
	// Bonus is the skill bonus used.
	Bonus int
	// Roll is the supplied dice total.
	Roll int
	// Raw is Bonus + Roll.
	Raw int
	// Spent is the Aether committed to the attack.
	Spent int
	// Failed is true when Raw < 0.
	Failed bool
	// Capped is true when Raw exceeded Spent.
	Capped bool
	// Base is min(Raw, Spent) before the multiplier.
	Base int
	// Damage is the final damage in shifts. Always >= 0.
	Damage int
}

// ResolveDamage performs the second roll of a magical attack. A miss or
// misfire deals 0 without a lookup. Otherwise the affinity attack skill bonus
// plus roll is capped at spent, multiplied by the hit outcome's multiplier, and
// rounded half up. A negative result deals 0.
//
// Precondition: spent >= 0.
// Postcondition: Damage >= 0. Returns ErrAffinityUnset with Damage 0 when the
// sheet's affinity names no attack skill.
func (e *Engine) ResolveDamage(sheet *character.Sheet, hit HitResult, spent, roll int) (DamageRoll, error) {
	if sheet == nil {
		return DamageRoll{}, e.noSheet("resolve_damage")
	}
	if spent < 0 {
		return DamageRoll{}, ErrNegativeAmount
	}
	d := DamageRoll{Outcome: hit.Outcome, Roll: roll, Spent: spent}
	if !hit.Outcome.Landed() {
		e.logger.Debug("first roll did not land, no damage",
			zap.String("sheet", sheet.ID),
			zap.Stringer("outcome", hit.Outcome),
		)
		return d, nil
	}

	skill := sheet.Affinity.Attack
	if skill == "" {
		e.logger.Error("affinity attack skill is not set", zap.String("sheet", sheet.ID))
		return d, ErrAffinityUnset
	}
	d.Skill = skill
	d.Bonus, _ = e.skillBonus(sheet, skill, "resolve_damage")
	d.Raw = d.Bonus + roll

	if d.Raw < 0 {
		d.Failed = true
		e.logger.Debug("damage roll failed", zap.String("sheet", sheet.ID), zap.Int("result", d.Raw))
		return d, nil
	}

	d.Base = min(d.Raw, spent)
	d.Capped = d.Raw > spent
	num, den := Multiplier(hit.Outcome)
	d.Damage = scale(d.Base, num, den)
	e.logger.Debug("damage roll",
		zap.String("sheet", sheet.ID),
		zap.String("skill", skill),
		zap.Int("result", d.Raw),
		zap.Int("spent", spent),
		zap.Bool("capped", d.Capped),
		zap.Stringer("outcome", hit.Outcome),
		zap.Int("damage", d.Damage),
	)
	return d, nil
}

// skillBonus looks up skill on sheet, logging at warn when it is missing.
func (e *Engine) skillBonus(sheet *character.Sheet, skill, op string) (bonus int, unknown bool) {
	bonus, ok := sheet.Skill(skill)
	if !ok {
		e.logger.Warn("skill not on sheet, assuming 0",
			zap.String("sheet", sheet.ID),
			zap.String("skill", skill),
			zap.String("op", op),
		)
		return 0, true
	}
	return bonus, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

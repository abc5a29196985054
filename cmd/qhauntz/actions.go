package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
	"github.com/cory-johannsen/qhauntz/internal/game/combat"
	"github.com/cory-johannsen/qhauntz/internal/game/dice"
	"github.com/cory-johannsen/qhauntz/internal/game/roster"
	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

// request is one CLI invocation.
type request struct {
	Character  string
	Action     string
	Amount     int
	Category   string
	Skill      string
	Spend      int
	Roll       optionalInt
	DamageRoll optionalInt
	Target     string
}

// host runs requests against the roster, holding each character's lock for
// the duration of its engine calls.
type host struct {
	engine *combat.Engine
	roster *roster.Roster
	roller *dice.Roller
	expr   dice.Expression
	out    io.Writer
}

func (h *host) run(req request) error {
	id, ok := h.roster.Lookup(req.Character)
	if !ok {
		return fmt.Errorf("unknown character %q", req.Character)
	}

	switch strings.ToLower(req.Action) {
	case "show":
		return h.roster.With(id, func(s *character.Sheet) error {
			fmt.Fprintln(h.out, s.Summary())
			return nil
		})
	case "damage":
		cat, err := stress.ParseCategory(req.Category)
		if err != nil {
			return err
		}
		return h.roster.With(id, func(s *character.Sheet) error {
			return h.damage(s, req.Amount, cat)
		})
	case "tend":
		cat, err := stress.ParseCategory(req.Category)
		if err != nil {
			return err
		}
		return h.roster.With(id, func(s *character.Sheet) error {
			r, err := h.engine.Tend(s, cat, req.Amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(h.out, "tend %s %d: cleared boxes %v, consequence cleared %t, %d unspent\n",
				cat, r.Shifts, r.BoxesCleared, r.ConsequenceCleared, r.Remaining)
			fmt.Fprintln(h.out, s.Summary())
			return nil
		})
	case "attack":
		return h.attack(id, req)
	default:
		return fmt.Errorf("unknown action %q", req.Action)
	}
}

func (h *host) damage(s *character.Sheet, amount int, cat stress.Category) error {
	a, err := h.engine.ApplyDamage(s, amount, cat)
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "%s takes %d %s: %s", s.Name, a.Damage, cat, a.Stage)
	if a.Box >= 0 {
		fmt.Fprintf(h.out, " (box %d)", a.Capacity)
	}
	if a.ConsequenceTaken {
		fmt.Fprintf(h.out, " (%s consequence)", a.Consequence)
	}
	if a.TakenOut {
		fmt.Fprintf(h.out, ", %d unabsorbed", a.Leftover)
	}
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, s.Summary())
	return nil
}

func (h *host) attack(id string, req request) error {
	if req.Skill == "" {
		return fmt.Errorf("attack requires -skill")
	}
	var dmg combat.DamageRoll
	err := h.roster.With(id, func(s *character.Sheet) error {
		roll, err := h.rollOr(req.Roll)
		if err != nil {
			return err
		}
		hit, err := h.engine.ResolveHit(s, req.Skill, roll)
		if err != nil {
			return err
		}
		fmt.Fprintf(h.out, "%s rolls %s %+d%+d = %d: %s\n", s.Name, hit.Skill, hit.Bonus, hit.Roll, hit.Raw, hit.Outcome)
		if hit.Outcome == combat.Misfire {
			fmt.Fprintf(h.out, "backlash %d Aether: %s\n", hit.SelfDamage, hit.Backlash.Stage)
		}
		if !hit.Outcome.Landed() {
			fmt.Fprintln(h.out, s.Summary())
			return nil
		}

		droll, err := h.rollOr(req.DamageRoll)
		if err != nil {
			return err
		}
		dmg, err = h.engine.ResolveDamage(s, hit, req.Spend, droll)
		if err != nil {
			return err
		}
		fmt.Fprintf(h.out, "damage %s %+d%+d = %d, spent %d: %d shifts\n",
			dmg.Skill, dmg.Bonus, dmg.Roll, dmg.Raw, dmg.Spent, dmg.Damage)
		fmt.Fprintln(h.out, s.Summary())
		return nil
	})
	if err != nil || req.Target == "" || dmg.Damage == 0 {
		return err
	}

	targetID, ok := h.roster.Lookup(req.Target)
	if !ok {
		return fmt.Errorf("unknown target %q", req.Target)
	}
	cat, err := stress.ParseCategory(req.Category)
	if err != nil {
		return err
	}
	return h.roster.With(targetID, func(s *character.Sheet) error {
		return h.damage(s, dmg.Damage, cat)
	})
}

// rollOr returns the supplied total, or rolls the configured expression.
func (h *host) rollOr(o optionalInt) (int, error) {
	if o.set {
		return o.value, nil
	}
	res, err := h.roller.Roll(h.expr)
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(h.out, res.String())
	return res.Total(), nil
}

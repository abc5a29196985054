// Package combat implements the Qhauntz rules engine: damage absorption,
// tending, and the two-roll magical attack.
package combat

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/qhauntz/internal/game/character"
)

var (
	// ErrNoSheet is returned when an operation is invoked without character state.
	ErrNoSheet = errors.New("combat: no character sheet")
	// ErrNegativeAmount is returned for negative damage, shifts, or Aether spend.
	ErrNegativeAmount = errors.New("combat: amount must be >= 0")
	// ErrAffinityUnset is returned by ResolveDamage when the attack affinity skill is empty.
	ErrAffinityUnset = errors.New("combat: affinity attack skill is not set")
)

// Rules holds the tunable constants of the rulebook.
type Rules struct {
	// MildConsequenceShifts is the damage a mild consequence absorbs.
	MildConsequenceShifts int
	// MildConsequenceHealCost is the shifts needed to clear a mild consequence.
	MildConsequenceHealCost int
	// BonusTrackThreshold is the combined Resolve+Endurance fill count at which
	// the Aether track gains its bonus box.
	BonusTrackThreshold int
	// BonusBoxCapacity is the capacity of that bonus box.
	BonusBoxCapacity int
}

// DefaultRules returns the rulebook values.
func DefaultRules() Rules {
	return Rules{
		MildConsequenceShifts:   2,
		MildConsequenceHealCost: 2,
		BonusTrackThreshold:     3,
		BonusBoxCapacity:        1,
	}
}

// Hooks receives notifications for outcomes the engine leaves to the host.
// Implementations must not call back into the Engine for the same sheet.
type Hooks interface {
	// TakenOut is called when a hit leaves leftover damage after every stage.
	TakenOut(sheet *character.Sheet, a Absorption)
	// Misfire is called after a misfire's backlash has been applied.
	Misfire(sheet *character.Sheet, hit HitResult)
	// Overcharge is called for a Crit with Style, whose bonus advantage is host-defined.
	Overcharge(sheet *character.Sheet, hit HitResult)
}

type nopHooks struct{}

func (nopHooks) TakenOut(*character.Sheet, Absorption)   {}
func (nopHooks) Misfire(*character.Sheet, HitResult)    {}
func (nopHooks) Overcharge(*character.Sheet, HitResult) {}

// Engine applies the rules to character sheets passed into each call.
//
// Engine holds no character state and performs no locking: the caller must
// guarantee exclusive access to a sheet for the duration of one call.
type Engine struct {
	rules  Rules
	logger *zap.Logger
	hooks  Hooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithHooks installs h as the engine's hook receiver.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// NewEngine creates an Engine.
//
// Precondition: logger may be nil, in which case logging is disabled.
// Postcondition: Returns a non-nil Engine using rules.
func NewEngine(rules Rules, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{rules: rules, logger: logger, hooks: nopHooks{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rule constants.
func (e *Engine) Rules() Rules { return e.rules }

func (e *Engine) noSheet(op string) error {
	e.logger.Error("combat: no character sheet", zap.String("op", op))
	return ErrNoSheet
}

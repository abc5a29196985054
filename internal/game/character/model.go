// Package character defines the character combat state consumed by the rules engine.
package character

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

// Status is a character's social and magical standing; it governs how they
// interact with Aether.
type Status int

const (
	StatusFyemyn Status = iota
	StatusAyrmyn
	StatusTyrmyn
	StatusFyrmyn
	StatusAyxmyn
	StatusNyhmyn
)

var statusNames = []string{"Fyemyn", "Ayrmyn", "Tyrmyn", "Fyrmyn", "Ayxmyn", "Nyhmyn"}

// String returns the status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// ParseStatus parses a case-insensitive status name.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// Affinity names the skill backing each magical action.
type Affinity struct {
	Name      string `yaml:"name"`
	Attack    string `yaml:"attack"`
	Defend    string `yaml:"defend"`
	Tend      string `yaml:"tend"`
	NonCombat string `yaml:"non_combat"`
}

// MagicalSkills lists the skills that channel Aether.
var MagicalSkills = []string{
	"Analysis", "Compel", "Conjuration", "Empathy", "Enhancement", "Illusion",
	"Mysticism", "Perception", "Suppression", "Telekinesis", "Teleportation", "Will",
}

// NonMagicalSkills lists the mundane skills.
var NonMagicalSkills = []string{"Engineering", "Marksmanship", "Martial Arts", "Physique"}

// IsKnownSkill reports whether name is in the skill catalogue.
func IsKnownSkill(name string) bool {
	for _, s := range MagicalSkills {
		if s == name {
			return true
		}
	}
	for _, s := range NonMagicalSkills {
		if s == name {
			return true
		}
	}
	return false
}

// Sheet is one character's combat state. The rules engine reads and mutates
// it in place; the host owns it and serialises access.
type Sheet struct {
	ID         string
	TemplateID string

	Name       string
	Maxim      string
	Imperative string
	Guild      string
	Status     Status
	Affinity   Affinity
	Skills     map[string]int

	FatePoints int
	Refresh    int

	Endurance    stress.Track
	Resolve      stress.Track
	Aether       stress.Track
	Consequences stress.Consequences
}

// Skill returns the bonus for the named skill and whether it is present.
func (s *Sheet) Skill(name string) (int, bool) {
	v, ok := s.Skills[name]
	return v, ok
}

// Track returns the stress track for cat, or nil for an unknown category.
func (s *Sheet) Track(cat stress.Category) *stress.Track {
	switch cat {
	case stress.Endurance:
		return &s.Endurance
	case stress.Resolve:
		return &s.Resolve
	case stress.Aether:
		return &s.Aether
	default:
		return nil
	}
}

// Summary renders the tracks and consequences on one line.
func (s *Sheet) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: Resolve %s Endurance %s Aether %s", s.Name, s.Resolve.String(), s.Endurance.String(), s.Aether.String())
	for _, cat := range s.Consequences.Occupied() {
		fmt.Fprintf(&b, " | %s: %q", cat, s.Consequences.Label(cat))
	}
	return b.String()
}

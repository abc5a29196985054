package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/qhauntz/internal/game/stress"
)

// MaxSkillRating is the highest skill rating a template may assign.
const MaxSkillRating = 4

// StressLayout holds the box capacities of each primary stress track.
type StressLayout struct {
	Endurance []int `yaml:"endurance"`
	Resolve   []int `yaml:"resolve"`
	Aether    []int `yaml:"aether"`
}

// Template defines a pregenerated character loaded from YAML.
type Template struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Maxim      string         `yaml:"maxim"`
	Imperative string         `yaml:"imperative"`
	Guild      string         `yaml:"guild"`
	Status     string         `yaml:"status"`
	Affinity   Affinity       `yaml:"affinity"`
	Skills     map[string]int `yaml:"skills"`
	FatePoints int            `yaml:"fate_points"`
	Refresh    int            `yaml:"refresh"`
	Stress     StressLayout   `yaml:"stress"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Status parses, every
// skill is catalogued and rated 0..MaxSkillRating, and every box capacity is > 0.
// Otherwise returns an error listing every violation.
func (t *Template) Validate() error {
	var errs []string
	if t.ID == "" {
		return errors.New("character template: id must not be empty")
	}
	if t.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if t.Status != "" {
		if _, err := ParseStatus(t.Status); err != nil {
			errs = append(errs, err.Error())
		}
	}
	for name, rating := range t.Skills {
		if !IsKnownSkill(name) {
			errs = append(errs, fmt.Sprintf("unknown skill %q", name))
		}
		if rating < 0 || rating > MaxSkillRating {
			errs = append(errs, fmt.Sprintf("skill %q rating must be 0-%d, got %d", name, MaxSkillRating, rating))
		}
	}
	for _, a := range []string{t.Affinity.Attack, t.Affinity.Defend, t.Affinity.Tend, t.Affinity.NonCombat} {
		if a != "" && !IsKnownSkill(a) {
			errs = append(errs, fmt.Sprintf("affinity names unknown skill %q", a))
		}
	}
	for track, caps := range map[string][]int{
		"endurance": t.Stress.Endurance,
		"resolve":   t.Stress.Resolve,
		"aether":    t.Stress.Aether,
	} {
		for _, c := range caps {
			if c <= 0 {
				errs = append(errs, fmt.Sprintf("stress.%s box capacity must be > 0, got %d", track, c))
			}
		}
	}
	if t.FatePoints < 0 || t.Refresh < 0 {
		errs = append(errs, "fate_points and refresh must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("character template %q: %s", t.ID, strings.Join(errs, "; "))
	}
	return nil
}

// LoadTemplateFromBytes parses a single character template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading character dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// NewSheet instantiates a fresh Sheet from tmpl with a new unique ID. All
// boxes start unfilled and all consequence slots start free.
//
// Precondition: tmpl must not be nil and must pass Validate.
// Postcondition: Returns a Sheet whose Skills map is a copy of tmpl.Skills.
func NewSheet(tmpl *Template) (*Sheet, error) {
	if tmpl == nil {
		return nil, errors.New("template must not be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	status := StatusFyemyn
	if tmpl.Status != "" {
		status, _ = ParseStatus(tmpl.Status)
	}

	endurance, err := stress.NewTrack(tmpl.Stress.Endurance...)
	if err != nil {
		return nil, fmt.Errorf("endurance track: %w", err)
	}
	resolve, err := stress.NewTrack(tmpl.Stress.Resolve...)
	if err != nil {
		return nil, fmt.Errorf("resolve track: %w", err)
	}
	aether, err := stress.NewTrack(tmpl.Stress.Aether...)
	if err != nil {
		return nil, fmt.Errorf("aether track: %w", err)
	}

	skills := make(map[string]int, len(tmpl.Skills))
	for k, v := range tmpl.Skills {
		skills[k] = v
	}

	return &Sheet{
		ID:         uuid.New().String(),
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		Maxim:      tmpl.Maxim,
		Imperative: tmpl.Imperative,
		Guild:      tmpl.Guild,
		Status:     status,
		Affinity:   tmpl.Affinity,
		Skills:     skills,
		FatePoints: tmpl.FatePoints,
		Refresh:    tmpl.Refresh,
		Endurance:  *endurance,
		Resolve:    *resolve,
		Aether:     *aether,
	}, nil
}

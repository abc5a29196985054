package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// FateSides marks an Expression as Fate dice: each die shows -1, 0 or +1.
const FateSides = 0

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1 and either Fate() or Sides >= 2 after successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die; FateSides for Fate dice
	Modifier int    // flat modifier (may be negative)
}

// Fate reports whether e rolls Fate dice.
func (e Expression) Fate() bool { return e.Sides == FateSides }

// Parse parses a dice expression string into an Expression.
// Supported forms: "4dF", "dF", "4df+1", "d20", "2d6", "2d6+3", "4d8-2".
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
		count = n
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides := FateSides
	if sidesStr != "f" {
		n, err := strconv.Atoi(sidesStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
		}
		if n < 2 {
			return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
		}
		sides = n
	}

	modifier := 0
	if modStr != "" {
		n, err := strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
		modifier = n
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

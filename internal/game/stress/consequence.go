package stress

// Consequences holds one mild consequence slot per category.
// An empty label means the slot is free.
type Consequences struct {
	Endurance string
	Resolve   string
	Aether    string
}

// DefaultLabel returns the label used when a mild consequence of category c is taken.
func DefaultLabel(c Category) string {
	return "Default Mild " + c.String() + " Consequence"
}

func (c *Consequences) slot(cat Category) *string {
	switch cat {
	case Endurance:
		return &c.Endurance
	case Resolve:
		return &c.Resolve
	case Aether:
		return &c.Aether
	default:
		return nil
	}
}

// Label returns the label held by the slot for cat, or "" if free or unknown.
func (c *Consequences) Label(cat Category) string {
	if s := c.slot(cat); s != nil {
		return *s
	}
	return ""
}

// Free reports whether the slot for cat exists and is unoccupied.
func (c *Consequences) Free(cat Category) bool {
	s := c.slot(cat)
	return s != nil && *s == ""
}

// Occupy stores label in the slot for cat. An empty label is replaced with
// DefaultLabel(cat) so that occupancy is always observable.
//
// Postcondition: Free(cat) is false for every known category.
func (c *Consequences) Occupy(cat Category, label string) {
	s := c.slot(cat)
	if s == nil {
		return
	}
	if label == "" {
		label = DefaultLabel(cat)
	}
	*s = label
}

// Clear frees the slot for cat.
//
// Postcondition: Free(cat) is true for every known category.
func (c *Consequences) Clear(cat Category) {
	if s := c.slot(cat); s != nil {
		*s = ""
	}
}

// Occupied returns the occupied categories in Endurance, Resolve, Aether order.
func (c *Consequences) Occupied() []Category {
	var out []Category
	for _, cat := range []Category{Endurance, Resolve, Aether} {
		if !c.Free(cat) {
			out = append(out, cat)
		}
	}
	return out
}

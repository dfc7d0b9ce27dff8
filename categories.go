package philofeed

import "strings"

// Category is one of the fixed keys partitioning content.
type Category string

const (
	CategoryHome         Category = "home"
	CategoryPhilosophers Category = "philosophers"
	CategoryCurrents     Category = "currents"
	CategoryTexts        Category = "texts"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHome,
	CategoryPhilosophers,
	CategoryCurrents,
	CategoryTexts,
}

var categoryNames = map[Category]string{
	CategoryHome:         "Artículo General",
	CategoryPhilosophers: "Filósofo",
	CategoryCurrents:     "Corriente Filosófica",
	CategoryTexts:        "Texto Filosófico",
}

// CategoryName returns the human-readable label for key, or key itself when
// it is not a known category.
func CategoryName(key string) string {
	if name, ok := categoryNames[Category(key)]; ok {
		return name
	}
	return key
}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Label is shorthand for CategoryName(string(c)).
func (c Category) Label() string {
	return CategoryName(string(c))
}

// ContainerID is the DOM id of the feed container for c.
func (c Category) ContainerID() string {
	return "user-" + string(c) + "-content"
}

func categoryStrings() []interface{} {
	out := make([]interface{}, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}

package philofeed

import (
	"fmt"

	"github.com/eringen/philofeed/views"
)

// Section is one page section the visitor can switch to. Category is set
// for sections that show a feed.
type Section struct {
	ID       string
	Title    string
	Category Category
}

// SectionUpload holds the submission form.
const SectionUpload = "upload"

// DefaultSections are the site's fixed sections in nav order.
var DefaultSections = []Section{
	{ID: string(CategoryHome), Title: "Inicio", Category: CategoryHome},
	{ID: string(CategoryPhilosophers), Title: "Filósofos", Category: CategoryPhilosophers},
	{ID: string(CategoryCurrents), Title: "Corrientes Filosóficas", Category: CategoryCurrents},
	{ID: string(CategoryTexts), Title: "Textos", Category: CategoryTexts},
	{ID: SectionUpload, Title: "Subir Contenido"},
}

// Navigator keeps exactly one section active.
type Navigator struct {
	sections []Section
	active   int
}

// NewNavigator starts with initial active. An unknown initial falls back to
// the first section; no sections means DefaultSections.
func NewNavigator(sections []Section, initial string) *Navigator {
	if len(sections) == 0 {
		sections = DefaultSections
	}
	n := &Navigator{sections: sections}
	if i := n.index(initial); i >= 0 {
		n.active = i
	}
	return n
}

func (n *Navigator) index(id string) int {
	for i, s := range n.sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Activate makes id the only active section. Unknown ids leave the state
// unchanged.
func (n *Navigator) Activate(id string) error {
	i := n.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	n.active = i
	return nil
}

// Active returns the active section.
func (n *Navigator) Active() Section {
	return n.sections[n.active]
}

// IsActive reports whether id is the active section.
func (n *Navigator) IsActive(id string) bool {
	return n.Active().ID == id
}

// Sections returns the sections in nav order.
func (n *Navigator) Sections() []Section {
	out := make([]Section, len(n.sections))
	copy(out, n.sections)
	return out
}

// viewSections marks the active section for the nav bar.
func (n *Navigator) viewSections() []views.Section {
	out := make([]views.Section, len(n.sections))
	for i, s := range n.sections {
		out[i] = views.Section{ID: s.ID, Title: s.Title, Active: i == n.active}
	}
	return out
}

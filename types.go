package philofeed

// ContentRecord is a single visitor-submitted entry. The JSON keys match the
// slot layout written by the browser widget, so an exported
// "userContents" value hydrates unchanged.
type ContentRecord struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

// HasImage reports whether the record carries an embedded image.
func (r ContentRecord) HasImage() bool {
	return r.ImageURL != ""
}

// State maps every category to its records in insertion order.
type State map[Category][]ContentRecord

// newState returns a State with an empty sequence for each category.
func newState() State {
	s := make(State, len(Categories))
	for _, c := range Categories {
		s[c] = []ContentRecord{}
	}
	return s
}

// clone deep-copies the state so callers cannot alias store internals.
func (s State) clone() State {
	out := make(State, len(s))
	for k, recs := range s {
		cp := make([]ContentRecord, len(recs))
		copy(cp, recs)
		out[k] = cp
	}
	return out
}

package philofeed

import "testing"

func TestCategoryName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"home", "Artículo General"},
		{"philosophers", "Filósofo"},
		{"currents", "Corriente Filosófica"},
		{"texts", "Texto Filosófico"},
		{"poetry", "poetry"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CategoryName(tt.key); got != tt.want {
			t.Errorf("CategoryName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"home", CategoryHome, true},
		{" Texts ", CategoryTexts, true},
		{"PHILOSOPHERS", CategoryPhilosophers, true},
		{"upload", "upload", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoryContainerID(t *testing.T) {
	if got := CategoryCurrents.ContainerID(); got != "user-currents-content" {
		t.Errorf("ContainerID = %q", got)
	}
}

func TestCategoriesAreAllNamed(t *testing.T) {
	if len(Categories) != 4 {
		t.Fatalf("len(Categories) = %d, want 4", len(Categories))
	}
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%q is not valid", c)
		}
		if c.Label() == string(c) {
			t.Errorf("%q has no human-readable label", c)
		}
	}
}

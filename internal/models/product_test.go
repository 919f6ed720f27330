package models

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Haldiram's Namkeen Mix", "haldiram-s-namkeen-mix"},
		{"Blue T-Shirt", "blue-t-shirt"},
		{"  Spaced  Out  ", "spaced-out"},
		{"UPPER case 123", "upper-case-123"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

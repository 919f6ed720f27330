package models

import (
	"regexp"
	"strings"
	"time"
)

type Product struct {
	ID          int
	Name        string
	Description string
	Image       string
	Price       float64
	Category    string
	Veg         bool
	Slug        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL key from a product name: lowercase,
// runs of non-alphanumerics collapsed to a single dash.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

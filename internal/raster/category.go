// Package raster wraps single-band categorical flood grids and answers
// cell-level and windowed-region queries against them.
package raster

// Category is a flood severity code assigned per raster cell or per geometry.
type Category uint8

// Flood severity codes.
const (
	CategoryNone     Category = 0 // observed, no flood
	CategoryNuisance Category = 1
	CategoryMinor    Category = 2
	CategoryModerate Category = 3
	CategoryMajor    Category = 4
)

// NumCategories is the number of valid severity codes.
const NumCategories = 5

var categoryLabels = [NumCategories]string{
	"No Flood",
	"Nuisance Flood (0.1-0.2m)",
	"Minor Flood (0.2-0.5m)",
	"Moderate Flood (0.5-1.0m)",
	"Major Flood (>1.0m)",
}

var categoryColors = [NumCategories]string{
	"#D3D3D3",
	"#FFC8C8",
	"#FF8080",
	"#FF0000",
	"#800080",
}

// Valid reports whether c is one of the five severity codes.
func (c Category) Valid() bool {
	return c < NumCategories
}

// Label returns the human-readable description of the category.
func (c Category) Label() string {
	if !c.Valid() {
		return "Unknown"
	}
	return categoryLabels[c]
}

// Color returns the hex display color for the category.
func (c Category) Color() string {
	if !c.Valid() {
		return "#FFFFFF"
	}
	return categoryColors[c]
}

// MaxCategory returns the larger of two categories.
func MaxCategory(a, b Category) Category {
	if a > b {
		return a
	}
	return b
}

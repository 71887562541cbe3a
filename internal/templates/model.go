package templates

import "strconv"

// Template describes one entry of the built-in catalog.
type Template struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog is the fixed set of templates offered to users.
var Catalog = []Template{
	{ID: 1, Name: "Professional", Description: "Classic single column layout in the style of Jake's resume"},
	{ID: 2, Name: "Modern", Description: "Coloured section headings with a compact skills table"},
	{ID: 3, Name: "Minimalist", Description: "Plain typography with thin rules and no colour"},
}

// Key returns the storage key of a template source.
func Key(id int) string {
	return strconv.Itoa(id) + ".tex"
}

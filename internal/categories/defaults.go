package categories

// Defaults are seeded into an empty table and back label lookups for
// category ids that no longer exist.
var Defaults = []Category{
	{CategoryID: "suit", Label: "Suit", Icon: "shopping-bag", IsActive: true, SortOrder: 0},
	{CategoryID: "kurti", Label: "Kurti", Icon: "layout", IsActive: true, SortOrder: 1},
	{CategoryID: "top", Label: "Top", Icon: "airplay", IsActive: true, SortOrder: 2},
	{CategoryID: "jewellery", Label: "Jewellery", Icon: "award", IsActive: true, SortOrder: 3},
	{CategoryID: "trousers", Label: "Trousers", Icon: "align-left", IsActive: true, SortOrder: 4},
	{CategoryID: "pants", Label: "Pants", Icon: "sidebar", IsActive: true, SortOrder: 5},
}

// LabelFor resolves a display label for categoryID: the stored category
// first, then the defaults, then the raw id.
func LabelFor(categoryID string, stored []Category) string {
	for _, c := range stored {
		if c.CategoryID == categoryID {
			return c.Label
		}
	}
	for _, c := range Defaults {
		if c.CategoryID == categoryID {
			return c.Label
		}
	}
	return categoryID
}

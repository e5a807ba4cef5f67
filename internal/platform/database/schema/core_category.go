package schema

// CategoryTable represents the 'core.category' table
type CategoryTable struct {
	Table          string
	ID             string
	Name           string
	MainCategoryID string
}

// Category is the schema definition for core.category.
//
// A NULL maincategoryid marks a root ("main") category; the pair
// (name, maincategoryid) is unique with NULLS NOT DISTINCT.
var Category = CategoryTable{
	Table:          "core.category",
	ID:             "id",
	Name:           "name",
	MainCategoryID: "maincategoryid",
}

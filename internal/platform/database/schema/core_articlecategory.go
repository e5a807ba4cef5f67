package schema

// ArticleCategoryTable represents the 'core.articlecategory' junction table
type ArticleCategoryTable struct {
	Table      string
	ArticleID  string
	CategoryID string
	Position   string
}

// ArticleCategory is the schema definition for core.articlecategory.
//
// Position preserves the order of the article's category list.
var ArticleCategory = ArticleCategoryTable{
	Table:      "core.articlecategory",
	ArticleID:  "articleid",
	CategoryID: "categoryid",
	Position:   "position",
}

package schema

// AuthorshipTable represents the 'core.authorship' join table
type AuthorshipTable struct {
	Table     string
	ID        string
	AuthorID  string
	ArticleID string
	CreatedAt string
	UpdatedAt string
}

// Authorship is the schema definition for core.authorship.
//
// The pair (authorid, articleid) is unique: at most one authorship row per
// author/article pair.
var Authorship = AuthorshipTable{
	Table:     "core.authorship",
	ID:        "id",
	AuthorID:  "authorid",
	ArticleID: "articleid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

package schema

// ArticleTable represents the 'core.article' table
type ArticleTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	ISCED       string
	PublishDate string
	UploadDate  string
	Content     string
	CreatedAt   string
	UpdatedAt   string
}

// Article is the schema definition for core.article
var Article = ArticleTable{
	Table:       "core.article",
	ID:          "id",
	Title:       "title",
	Description: "description",
	ISCED:       "isced",
	PublishDate: "publishdate",
	UploadDate:  "uploaddate",
	Content:     "content",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

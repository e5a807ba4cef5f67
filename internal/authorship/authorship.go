// Copyright (c) 2026 Epylog. All rights reserved.

/*
Package authorship manages the many-to-many join between users and articles.

Authorship rows are first-class records rather than embedded arrays: each row
carries its own identity and timestamps, and the (author, article) pair is
unique. The article and user packages resolve their virtual relations through
this package instead of querying the join table directly.
*/
package authorship

import "time"

// Authorship is a single author-to-article link.
type Authorship struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author"`
	ArticleID string    `json:"article"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

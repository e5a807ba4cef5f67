// Copyright (c) 2026 Epylog. All rights reserved.

package authorship

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/database/schema"
	"github.com/epylog/epylog/internal/platform/dberr"
	"github.com/epylog/epylog/pkg/uuidv7"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Link(context context.Context, authorID, articleID string) (*Authorship, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`,
		schema.Authorship.Table, schema.Authorship.ID, schema.Authorship.AuthorID, schema.Authorship.ArticleID,
		schema.Authorship.CreatedAt, schema.Authorship.UpdatedAt,
	)

	link := &Authorship{
		ID:        uuidv7.New(),
		AuthorID:  authorID,
		ArticleID: articleID,
	}

	err := repository.db.QueryRow(context, query, link.ID, authorID, articleID).Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return nil, mapLinkError(err)
	}

	return link, nil
}

// mapLinkError classifies a failed link insert. A unique violation on the
// (author, article) pair is a client-facing conflict; anything else goes
// through the usual bridge.
func mapLinkError(err error) error {
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Authorship already exists for this author and article")
	}
	return dberr.Wrap(err, "link_authorship")
}

func (repository *PostgresRepository) UnlinkAllForArticle(context context.Context, articleID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Authorship.Table, schema.Authorship.ArticleID,
	)

	cmd, err := repository.db.Exec(context, query, articleID)
	if err != nil {
		return 0, dberr.Wrap(err, "unlink_authorships")
	}

	// Zero removed rows is a valid outcome: the article simply had no authors.
	return cmd.RowsAffected(), nil
}

func (repository *PostgresRepository) AuthorsOf(context context.Context, articleID string) ([]*Authorship, error) {
	return repository.list(context, schema.Authorship.ArticleID, articleID)
}

func (repository *PostgresRepository) ArticlesOf(context context.Context, authorID string) ([]*Authorship, error) {
	return repository.list(context, schema.Authorship.AuthorID, authorID)
}

func (repository *PostgresRepository) list(context context.Context, column, value string) ([]*Authorship, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.Authorship.ID, schema.Authorship.AuthorID, schema.Authorship.ArticleID,
		schema.Authorship.CreatedAt, schema.Authorship.UpdatedAt,
		schema.Authorship.Table, column, schema.Authorship.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, value)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authorships")
	}
	defer rows.Close()

	var links []*Authorship
	for rows.Next() {
		link := &Authorship{}
		if err := rows.Scan(&link.ID, &link.AuthorID, &link.ArticleID, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_authorship")
		}
		links = append(links, link)
	}

	return links, nil
}

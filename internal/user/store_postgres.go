// Copyright (c) 2026 Epylog. All rights reserved.

package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epylog/epylog/internal/platform/apperr"
	"github.com/epylog/epylog/internal/platform/database/schema"
	"github.com/epylog/epylog/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
ListUsers returns a filtered, paginated slice of users and the total count.

Runs as a COUNT plus a page fetch, then one batched lookup attaching article
summaries through the authorship join table. The count reflects the filter,
not the page, so the service can tell an empty catalogue from an
out-of-range page.
*/
func (repository *PostgresRepository) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*User, int, error) {
	where := ""
	var args []any

	if filter.FamilyName != "" {
		args = append(args, "%"+filter.FamilyName+"%")
		where = fmt.Sprintf(" WHERE %s ILIKE $1", schema.Account.FamilyName)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Account.Table) + where

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}
	if total == 0 {
		return nil, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
	`,
		schema.Account.ID, schema.Account.Email, schema.Account.GivenName, schema.Account.FamilyName,
		schema.Account.BirthDate, schema.Account.Interests, schema.Account.Description,
		schema.Account.CreatedAt, schema.Account.UpdatedAt,
		schema.Account.Table,
	) + where

	query += fmt.Sprintf(" ORDER BY %s ASC, %s ASC LIMIT $%d OFFSET $%d",
		schema.Account.FamilyName, schema.Account.GivenName, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		err := rows.Scan(
			&u.ID, &u.Email, &u.GivenName, &u.FamilyName,
			&u.BirthDate, &u.Interests, &u.Description,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}

	if err := repository.attachArticleSummaries(context, users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// attachArticleSummaries resolves the authorship relation for a batch of
// users in a single query. Links pointing at deleted articles drop out of the
// inner join, surfacing as absent entries.
func (repository *PostgresRepository) attachArticleSummaries(context context.Context, users []*User) error {
	if len(users) == 0 {
		return nil
	}

	byID, ids := indexForSummaries(users)

	query := fmt.Sprintf(`
		SELECT au.%s, ar.%s, ar.%s
		FROM %s au
		JOIN %s ar ON au.%s = ar.%s
		WHERE au.%s = ANY($1::uuid[])
		ORDER BY au.%s ASC
	`,
		schema.Authorship.AuthorID, schema.Article.ID, schema.Article.Title,
		schema.Authorship.Table,
		schema.Article.Table, schema.Authorship.ArticleID, schema.Article.ID,
		schema.Authorship.AuthorID,
		schema.Authorship.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "populate_user_articles")
	}
	defer rows.Close()

	var summaries []summaryRow
	for rows.Next() {
		var row summaryRow
		if err := rows.Scan(&row.authorID, &row.summary.ID, &row.summary.Title); err != nil {
			return dberr.Wrap(err, "scan_user_article")
		}
		summaries = append(summaries, row)
	}

	assembleSummaries(byID, summaries)
	return nil
}

// summaryRow is one scanned row of the article-summary population query.
type summaryRow struct {
	authorID string
	summary  ArticleSummary
}

// indexForSummaries resets the summary slices of a batch to empty (API
// responses carry [], never null) and returns the users keyed by id plus the
// id list for the batch query.
func indexForSummaries(users []*User) (map[string]*User, []string) {
	byID := make(map[string]*User, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		u.Articles = []ArticleSummary{}
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}
	return byID, ids
}

// assembleSummaries distributes summary rows onto their users in row order
// (the query orders by link creation time).
func assembleSummaries(byID map[string]*User, rows []summaryRow) {
	for _, row := range rows {
		u := byID[row.authorID]
		u.Articles = append(u.Articles, row.summary)
	}
}

func (repository *PostgresRepository) GetUser(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Account.ID, schema.Account.Email, schema.Account.GivenName, schema.Account.FamilyName,
		schema.Account.BirthDate, schema.Account.Interests, schema.Account.Description,
		schema.Account.CreatedAt, schema.Account.UpdatedAt,
		schema.Account.Table, schema.Account.ID,
	)

	u := &User{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&u.ID, &u.Email, &u.GivenName, &u.FamilyName,
		&u.BirthDate, &u.Interests, &u.Description,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}

	return u, nil
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Account.ID, schema.Account.Email, schema.Account.PasswordHash,
		schema.Account.GivenName, schema.Account.FamilyName,
		schema.Account.BirthDate, schema.Account.Interests, schema.Account.Description,
		schema.Account.CreatedAt, schema.Account.UpdatedAt,
		schema.Account.Table, schema.Account.Email,
	)

	u := &User{}
	err := repository.db.QueryRow(context, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.GivenName, &u.FamilyName,
		&u.BirthDate, &u.Interests, &u.Description,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_email")
	}

	return u, nil
}

func (repository *PostgresRepository) CreateUser(context context.Context, u *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s
	`,
		schema.Account.Table,
		schema.Account.ID, schema.Account.Email, schema.Account.PasswordHash,
		schema.Account.GivenName, schema.Account.FamilyName,
		schema.Account.BirthDate, schema.Account.Interests, schema.Account.Description,
		schema.Account.CreatedAt, schema.Account.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		u.ID, u.Email, u.PasswordHash, u.GivenName, u.FamilyName,
		u.BirthDate, u.Interests, u.Description,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Email is already registered")
	}

	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresRepository) UpdateUser(context context.Context, u *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Account.Table,
		schema.Account.Email, schema.Account.PasswordHash,
		schema.Account.GivenName, schema.Account.FamilyName,
		schema.Account.BirthDate, schema.Account.Interests, schema.Account.Description,
		schema.Account.UpdatedAt,
		schema.Account.ID, schema.Account.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		u.ID, u.Email, u.PasswordHash, u.GivenName, u.FamilyName,
		u.BirthDate, u.Interests, u.Description,
	).Scan(&u.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Email is already registered")
	}

	return dberr.Wrap(err, "update_user")
}

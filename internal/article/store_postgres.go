// Copyright (c) 2026 Epylog. All rights reserved.

package article

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epylog/epylog/internal/category"
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
ListArticles returns a filtered, paginated slice of articles and the total count.

The operation runs as two round-trips: a COUNT over the filtered set, then the
page fetch. The count always reflects the full filtered set so callers can
distinguish "no matches at all" from "page beyond the end". The fetched page
is then populated in batched lookups (see populate).
*/
func (repository *PostgresRepository) ListArticles(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {

	// Shared WHERE clause for both the count and the page query.
	var whereBuilder strings.Builder
	var args []any

	whereBuilder.WriteString(" WHERE 1=1")

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		whereBuilder.WriteString(fmt.Sprintf(" AND a.%s ILIKE $%d", schema.Article.Title, len(args)))
	}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		whereBuilder.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM %s ac WHERE ac.%s = a.%s AND ac.%s = $%d)",
			schema.ArticleCategory.Table, schema.ArticleCategory.ArticleID, schema.Article.ID,
			schema.ArticleCategory.CategoryID, len(args),
		))
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s a`, schema.Article.Table) + whereBuilder.String()

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_articles")
	}
	if total == 0 {
		return nil, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s a
	`,
		schema.Article.ID, schema.Article.Title, schema.Article.Description, schema.Article.ISCED,
		schema.Article.PublishDate, schema.Article.UploadDate, schema.Article.Content,
		schema.Article.CreatedAt, schema.Article.UpdatedAt,
		schema.Article.Table,
	) + whereBuilder.String()

	query += fmt.Sprintf(" ORDER BY a.%s DESC, a.%s DESC LIMIT $%d OFFSET $%d",
		schema.Article.PublishDate, schema.Article.ID, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles")
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		a := &Article{}
		err := rows.Scan(
			&a.ID, &a.Title, &a.Description, &a.ISCED,
			&a.PublishDate, &a.UploadDate, &a.Content,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_article")
		}
		articles = append(articles, a)
	}

	if err := repository.populate(context, articles); err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (repository *PostgresRepository) GetArticle(context context.Context, id string) (*Article, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Article.ID, schema.Article.Title, schema.Article.Description, schema.Article.ISCED,
		schema.Article.PublishDate, schema.Article.UploadDate, schema.Article.Content,
		schema.Article.CreatedAt, schema.Article.UpdatedAt,
		schema.Article.Table, schema.Article.ID,
	)

	a := &Article{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&a.ID, &a.Title, &a.Description, &a.ISCED,
		&a.PublishDate, &a.UploadDate, &a.Content,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_article")
	}

	if err := repository.populate(context, []*Article{a}); err != nil {
		return nil, err
	}

	return a, nil
}

/*
populate resolves the category and author relations for a batch of articles.

Two queries regardless of batch size, both keyed on ANY(article ids):

  - Category references join the junction table against the category table
    (and the category table against itself for the main category). The join
    is LEFT so a reference to a deleted category still surfaces in
    CategoryIDs while the populated list simply skips it.
  - Authors travel junction-first as well; a link to a missing account is
    skipped the same way.
*/
func (repository *PostgresRepository) populate(context context.Context, articles []*Article) error {
	if len(articles) == 0 {
		return nil
	}

	byID, ids := indexForPopulation(articles)

	// Category batch, ordered by the stored list position.
	categoryQuery := fmt.Sprintf(`
		SELECT ac.%s, ac.%s, c.%s, c.%s, c.%s, m.%s, m.%s
		FROM %s ac
		LEFT JOIN %s c ON ac.%s = c.%s
		LEFT JOIN %s m ON c.%s = m.%s
		WHERE ac.%s = ANY($1::uuid[])
		ORDER BY ac.%s, ac.%s ASC
	`,
		schema.ArticleCategory.ArticleID, schema.ArticleCategory.CategoryID,
		schema.Category.ID, schema.Category.Name, schema.Category.MainCategoryID,
		schema.Category.ID, schema.Category.Name,
		schema.ArticleCategory.Table,
		schema.Category.Table, schema.ArticleCategory.CategoryID, schema.Category.ID,
		schema.Category.Table, schema.Category.MainCategoryID, schema.Category.ID,
		schema.ArticleCategory.ArticleID,
		schema.ArticleCategory.ArticleID, schema.ArticleCategory.Position,
	)

	rows, err := repository.db.Query(context, categoryQuery, ids)
	if err != nil {
		return dberr.Wrap(err, "populate_categories")
	}
	defer rows.Close()

	var categoryRefs []categoryRefRow
	for rows.Next() {
		var row categoryRefRow
		err := rows.Scan(
			&row.articleID, &row.refID,
			&row.catID, &row.catName, &row.catMainID,
			&row.mainID, &row.mainName,
		)
		if err != nil {
			return dberr.Wrap(err, "scan_article_category")
		}
		categoryRefs = append(categoryRefs, row)
	}
	rows.Close()

	assembleCategoryRefs(byID, categoryRefs)

	// Author batch via the authorship join table.
	authorQuery := fmt.Sprintf(`
		SELECT au.%s, acc.%s, acc.%s, acc.%s, acc.%s, acc.%s, acc.%s, acc.%s
		FROM %s au
		JOIN %s acc ON au.%s = acc.%s
		WHERE au.%s = ANY($1::uuid[])
		ORDER BY au.%s ASC
	`,
		schema.Authorship.ArticleID,
		schema.Account.ID, schema.Account.Email, schema.Account.GivenName, schema.Account.FamilyName,
		schema.Account.BirthDate, schema.Account.Interests, schema.Account.Description,
		schema.Authorship.Table,
		schema.Account.Table, schema.Authorship.AuthorID, schema.Account.ID,
		schema.Authorship.ArticleID,
		schema.Authorship.CreatedAt,
	)

	authorRows, err := repository.db.Query(context, authorQuery, ids)
	if err != nil {
		return dberr.Wrap(err, "populate_authors")
	}
	defer authorRows.Close()

	var authors []authorRow
	for authorRows.Next() {
		row := authorRow{author: &Author{}}

		err := authorRows.Scan(
			&row.articleID, &row.author.ID, &row.author.Email,
			&row.author.GivenName, &row.author.FamilyName,
			&row.author.BirthDate, &row.author.Interests, &row.author.Description,
		)
		if err != nil {
			return dberr.Wrap(err, "scan_article_author")
		}
		authors = append(authors, row)
	}

	assembleAuthors(byID, authors)
	return nil
}

// categoryRefRow is one scanned row of the category population query: the
// junction columns plus the joined category and its main category, both of
// which may be absent.
type categoryRefRow struct {
	articleID string
	refID     string
	catID     *string
	catName   *string
	catMainID *string
	mainID    *string
	mainName  *string
}

// authorRow is one scanned row of the author population query.
type authorRow struct {
	articleID string
	author    *Author
}

// indexForPopulation resets the relation slices of a batch to empty (API
// responses carry [], never null) and returns the articles keyed by id plus
// the id list for the batch queries.
func indexForPopulation(articles []*Article) (map[string]*Article, []string) {
	byID := make(map[string]*Article, len(articles))
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		a.Categories = []*category.Category{}
		a.Authors = []*Author{}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}
	return byID, ids
}

// assembleCategoryRefs distributes category rows onto their articles in row
// order (the query orders by list position). The raw reference id is always
// kept; a dangling reference has no category behind the junction entry and is
// skipped in the populated list.
func assembleCategoryRefs(byID map[string]*Article, rows []categoryRefRow) {
	for _, row := range rows {
		a := byID[row.articleID]
		a.CategoryIDs = append(a.CategoryIDs, row.refID)

		if row.catID == nil {
			continue
		}

		c := &category.Category{ID: *row.catID, Name: *row.catName, MainCategoryID: row.catMainID}
		if row.mainID != nil {
			c.MainCategory = &category.Category{ID: *row.mainID, Name: *row.mainName}
		}
		a.Categories = append(a.Categories, c)
	}
}

// assembleAuthors distributes author rows onto their articles in row order
// (the query orders by link creation time).
func assembleAuthors(byID map[string]*Article, rows []authorRow) {
	for _, row := range rows {
		a := byID[row.articleID]
		a.Authors = append(a.Authors, row.author)
	}
}

func (repository *PostgresRepository) CreateArticle(context context.Context, a *Article) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_article")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s
	`,
		schema.Article.Table,
		schema.Article.ID, schema.Article.Title, schema.Article.Description, schema.Article.ISCED,
		schema.Article.PublishDate, schema.Article.UploadDate, schema.Article.Content,
		schema.Article.UploadDate, schema.Article.CreatedAt, schema.Article.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		a.ID, a.Title, a.Description, a.ISCED, a.PublishDate, a.UploadDate, a.Content,
	).Scan(&a.UploadDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_article")
	}

	if err := repository.replaceCategories(context, transaction, a.ID, a.CategoryIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_article")
	}
	return nil
}

func (repository *PostgresRepository) UpdateArticle(context context.Context, a *Article) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_article")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Article.Table,
		schema.Article.Title, schema.Article.Description, schema.Article.ISCED,
		schema.Article.PublishDate, schema.Article.Content, schema.Article.UpdatedAt,
		schema.Article.ID, schema.Article.UpdatedAt,
	)

	err = transaction.QueryRow(context, query,
		a.ID, a.Title, a.Description, a.ISCED, a.PublishDate, a.Content,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_article")
	}

	if err := repository.replaceCategories(context, transaction, a.ID, a.CategoryIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_article")
	}
	return nil
}

func (repository *PostgresRepository) DeleteArticle(context context.Context, id string) (*Article, error) {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_delete_article")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s
	`,
		schema.Article.Table, schema.Article.ID,
		schema.Article.ID, schema.Article.Title, schema.Article.Description, schema.Article.ISCED,
		schema.Article.PublishDate, schema.Article.UploadDate, schema.Article.Content,
		schema.Article.CreatedAt, schema.Article.UpdatedAt,
	)

	a := &Article{}
	err = transaction.QueryRow(context, query, id).Scan(
		&a.ID, &a.Title, &a.Description, &a.ISCED,
		&a.PublishDate, &a.UploadDate, &a.Content,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "delete_article")
	}

	// Category references are article-owned rows, so they go with the article.
	junctionQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ArticleCategory.Table, schema.ArticleCategory.ArticleID,
	)
	if _, err := transaction.Exec(context, junctionQuery, id); err != nil {
		return nil, dberr.Wrap(err, "delete_article_categories")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_delete_article")
	}
	return a, nil
}

// replaceCategories wipes and rewrites the ordered category references of one
// article inside the caller's transaction.
func (repository *PostgresRepository) replaceCategories(context context.Context, transaction pgx.Tx, articleID string, categoryIDs []string) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ArticleCategory.Table, schema.ArticleCategory.ArticleID,
	)
	if _, err := transaction.Exec(context, deleteQuery, articleID); err != nil {
		return dberr.Wrap(err, "clear_article_categories")
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.ArticleCategory.Table,
		schema.ArticleCategory.ArticleID, schema.ArticleCategory.CategoryID, schema.ArticleCategory.Position,
	)

	batch := &pgx.Batch{}
	for position, categoryID := range categoryIDs {
		batch.Queue(insertQuery, articleID, categoryID, position)
	}

	result := transaction.SendBatch(context, batch)
	if err := result.Close(); err != nil {
		return dberr.Wrap(err, "insert_article_categories")
	}
	return nil
}

// Copyright (c) 2026 Epylog. All rights reserved.

package category

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

// selectPopulated joins the category table against itself so every row carries
// its (possibly NULL) main category. Dangling parent references resolve to
// NULLs on the joined side, not to an error.
func selectPopulated() string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, m.%s, m.%s
		FROM %s c
		LEFT JOIN %s m ON c.%s = m.%s
	`,
		schema.Category.ID, schema.Category.Name, schema.Category.MainCategoryID,
		schema.Category.ID, schema.Category.Name,
		schema.Category.Table,
		schema.Category.Table, schema.Category.MainCategoryID, schema.Category.ID,
	)
}

// scanPopulated maps one joined row into a Category with its MainCategory
// resolved one level deep.
func scanPopulated(row interface{ Scan(...any) error }) (*Category, error) {
	c := &Category{}
	var mainID, mainName *string

	if err := row.Scan(&c.ID, &c.Name, &c.MainCategoryID, &mainID, &mainName); err != nil {
		return nil, err
	}

	if mainID != nil {
		c.MainCategory = &Category{ID: *mainID, Name: *mainName}
	}
	return c, nil
}

func (repository *PostgresRepository) ListCategories(context context.Context) ([]*Category, error) {
	query := selectPopulated() + fmt.Sprintf(" ORDER BY c.%s ASC", schema.Category.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c, err := scanPopulated(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) ListRoots(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE %s IS NULL
		ORDER BY %s ASC
	`,
		schema.Category.ID, schema.Category.Name, schema.Category.MainCategoryID,
		schema.Category.Table, schema.Category.MainCategoryID, schema.Category.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_root_categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.MainCategoryID); err != nil {
			return nil, dberr.Wrap(err, "scan_root_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) ListChildren(context context.Context, mainID string) ([]*Category, error) {
	query := selectPopulated() + fmt.Sprintf(" WHERE c.%s = $1 ORDER BY c.%s ASC", schema.Category.MainCategoryID, schema.Category.Name)

	rows, err := repository.db.Query(context, query, mainID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_subcategories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c, err := scanPopulated(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_subcategory")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) GetCategory(context context.Context, id string) (*Category, error) {
	query := selectPopulated() + fmt.Sprintf(" WHERE c.%s = $1", schema.Category.ID)

	c, err := scanPopulated(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}

	return c, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
	`,
		schema.Category.Table, schema.Category.ID, schema.Category.Name, schema.Category.MainCategoryID,
	)

	_, err := repository.db.Exec(context, query, c.ID, c.Name, c.MainCategoryID)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Category already exists under this main category")
	}

	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) UpdateCategory(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3
		WHERE %s = $1
	`,
		schema.Category.Table, schema.Category.Name, schema.Category.MainCategoryID, schema.Category.ID,
	)

	cmd, err := repository.db.Exec(context, query, c.ID, c.Name, c.MainCategoryID)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Category already exists under this main category")
	}
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteCategory(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE %s = $1
		RETURNING %s, %s, %s
	`,
		schema.Category.Table, schema.Category.ID,
		schema.Category.ID, schema.Category.Name, schema.Category.MainCategoryID,
	)

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(&c.ID, &c.Name, &c.MainCategoryID)
	if err != nil {
		return nil, dberr.Wrap(err, "delete_category")
	}

	// Subcategories and article references keep pointing at the removed id.
	// They resolve to an absent parent on read, matching the documented
	// dangling-reference behavior.
	return c, nil
}

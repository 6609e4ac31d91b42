// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shici/internal/platform/database/schema"
	"github.com/taibuivan/shici/internal/platform/dberr"
	"github.com/taibuivan/shici/internal/platform/postgres"
	"github.com/taibuivan/shici/pkg/optional"
	"github.com/taibuivan/shici/pkg/pagination"
)

const resourceTag = "Tag"

// PostgresRepository implements [Repository] on a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// poemCountExpr counts the poems associated with the tag aliased "t".
var poemCountExpr = fmt.Sprintf(`(SELECT COUNT(*) FROM %s pt WHERE pt.%s = t.%s)`,
	schema.PoetryPoemTag.Table, schema.PoetryPoemTag.TagID, schema.PoetryTag.ID)

// tagColumns is the full column list in [scanTag] order.
var tagColumns = "t." + strings.Join(schema.PoetryTag.Columns(), ", t.")

// # Reads

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, query ListQuery) ([]View, int, error) {
	where, args := typeCondition(query.Type)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s t%s`, schema.PoetryTag.Table, where)

	columns := projectionColumns(query.Select)
	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s t%s
		ORDER BY %s DESC, t.%s ASC
		LIMIT $%d OFFSET $%d`,
		strings.Join(columns, ", "),
		schema.PoetryTag.Table, where,
		poemCountExpr, schema.PoetryTag.ID,
		len(args)+1, len(args)+2,
	)
	pageArgs := append(append([]any{}, args...), query.Page.PageSize, query.Page.Offset())

	var (
		total int
		views = make([]View, 0, pageCapacity(query.Page))
	)

	err := postgres.ReadSnapshot(ctx, repository.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return dberr.Wrap(err, resourceTag, "count_tags")
		}

		rows, err := tx.Query(ctx, pageQuery, pageArgs...)
		if err != nil {
			return dberr.Wrap(err, resourceTag, "list_tags")
		}
		defer rows.Close()

		for rows.Next() {
			view, err := scanView(rows, query.Select)
			if err != nil {
				return dberr.Wrap(err, resourceTag, "scan_tag_view")
			}
			views = append(views, view)
		}
		return dberr.Wrap(rows.Err(), resourceTag, "list_tags")
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceTag, "list_tags")
	}

	return views, total, nil
}

// Count implements [Repository]. Both numbers come from one statement.
func (repository *PostgresRepository) Count(ctx context.Context) (Counts, error) {
	query := fmt.Sprintf(`SELECT COUNT(*), COUNT(*) FILTER (WHERE %s = $1) FROM %s`,
		schema.PoetryTag.Type, schema.PoetryTag.Table)

	var counts Counts
	if err := repository.db.QueryRow(ctx, query, CipaiType).Scan(&counts.Total, &counts.Cipai); err != nil {
		return Counts{}, dberr.Wrap(err, resourceTag, "count_tags")
	}
	return counts, nil
}

// GetByID implements [Repository].
func (repository *PostgresRepository) GetByID(ctx context.Context, id int) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s t WHERE t.%s = $1`,
		tagColumns, schema.PoetryTag.Table, schema.PoetryTag.ID)

	tag, err := scanTag(repository.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, resourceTag, "get_tag_by_id")
	}
	return tag, nil
}

// # Writes

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, attrs Attributes) (*Tag, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s AS t (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.PoetryTag.Table,
		schema.PoetryTag.Name, schema.PoetryTag.NameLocalized,
		schema.PoetryTag.Type, schema.PoetryTag.TypeLocalized,
		schema.PoetryTag.Introduce, schema.PoetryTag.IntroduceLocalized,
		tagColumns,
	)

	tag, err := scanTag(repository.db.QueryRow(ctx, query,
		attrs.Name, attrs.NameLocalized,
		attrs.Type, attrs.TypeLocalized,
		attrs.Introduce, attrs.IntroduceLocalized,
	))
	if err != nil {
		return nil, dberr.Wrap(err, resourceTag, "create_tag")
	}
	return tag, nil
}

// Update implements [Repository]. Only the name and non-nil attributes are
// written; the id column is never part of the SET list.
func (repository *PostgresRepository) Update(ctx context.Context, id int, attrs Attributes) (*Tag, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	set(schema.PoetryTag.Name, attrs.Name)
	optionalColumns := []struct {
		column string
		value  *string
	}{
		{schema.PoetryTag.NameLocalized, attrs.NameLocalized},
		{schema.PoetryTag.Type, attrs.Type},
		{schema.PoetryTag.TypeLocalized, attrs.TypeLocalized},
		{schema.PoetryTag.Introduce, attrs.Introduce},
		{schema.PoetryTag.IntroduceLocalized, attrs.IntroduceLocalized},
	}
	for _, optionalColumn := range optionalColumns {
		if optionalColumn.value != nil {
			set(optionalColumn.column, *optionalColumn.value)
		}
	}

	query := fmt.Sprintf(`UPDATE %s AS t SET %s WHERE t.%s = $%d RETURNING %s`,
		schema.PoetryTag.Table, strings.Join(setClauses, ", "),
		schema.PoetryTag.ID, argIdx, tagColumns,
	)
	args = append(args, id)

	tag, err := scanTag(repository.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, resourceTag, "update_tag")
	}
	return tag, nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id int) (*Tag, error) {
	query := fmt.Sprintf(`DELETE FROM %s AS t WHERE t.%s = $1 RETURNING %s`,
		schema.PoetryTag.Table, schema.PoetryTag.ID, tagColumns)

	tag, err := scanTag(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceTag, "delete_tag")
	}
	return tag, nil
}

// # Query Helpers

// typeCondition renders the WHERE clause for a type filter.
func typeCondition(filter TypeFilter) (string, []any) {
	switch {
	case !filter.Active():
		return "", nil
	case filter.Value() == nil:
		return fmt.Sprintf(" WHERE t.%s IS NULL", schema.PoetryTag.Type), nil
	default:
		return fmt.Sprintf(" WHERE t.%s = $1", schema.PoetryTag.Type), []any{*filter.Value()}
	}
}

// projectionColumns returns the SELECT list in [scanView] order.
func projectionColumns(selection Selection) []string {
	columns := []string{"t." + schema.PoetryTag.ID}
	if selection.Name {
		columns = append(columns, "t."+schema.PoetryTag.Name)
	}
	if selection.Type {
		columns = append(columns, "t."+schema.PoetryTag.Type)
	}
	if selection.Introduce {
		columns = append(columns, "t."+schema.PoetryTag.Introduce)
	}
	if selection.Count {
		columns = append(columns, poemCountExpr)
	}
	return columns
}

// maxPreallocatedRows bounds the initial capacity of a listed page. Larger
// pages grow by append as rows arrive.
const maxPreallocatedRows = 64

func pageCapacity(page pagination.Params) int {
	return max(0, min(page.PageSize, maxPreallocatedRows))
}

func scanView(row pgx.Row, selection Selection) (View, error) {
	var (
		view      View
		name      string
		tagType   *string
		introduce *string
		count     int
	)

	dest := []any{&view.ID}
	if selection.Name {
		dest = append(dest, &name)
	}
	if selection.Type {
		dest = append(dest, &tagType)
	}
	if selection.Introduce {
		dest = append(dest, &introduce)
	}
	if selection.Count {
		dest = append(dest, &count)
	}

	if err := row.Scan(dest...); err != nil {
		return View{}, err
	}

	if selection.Name {
		view.Name = optional.Of(name)
	}
	if selection.Type {
		view.Type = optional.Of(tagType)
	}
	if selection.Introduce {
		view.Introduce = optional.Of(introduce)
	}
	if selection.Count {
		view.Count = optional.Of(count)
	}
	return view, nil
}

func scanTag(row pgx.Row) (*Tag, error) {
	tag := &Tag{}
	err := row.Scan(
		&tag.ID, &tag.Name, &tag.NameLocalized,
		&tag.Type, &tag.TypeLocalized,
		&tag.Introduce, &tag.IntroduceLocalized,
	)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

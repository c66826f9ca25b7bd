// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/unimart/internal/platform/database/schema"
	"github.com/taibuivan/unimart/internal/platform/dberr"
	"github.com/taibuivan/unimart/internal/platform/postgres"
	"github.com/taibuivan/unimart/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a new Postgres implementation for listings.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	selectColumns = "l." + strings.Join(schema.MarketListing.Columns(), ", l.")

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

/*
Search returns a filtered, paginated slice of listings and the total count.

Description: COUNT(*) OVER() returns the total in the same round trip. Without a
seller filter only ACTIVE listings are visible. A seller filter also shows that
seller's SOLD listings.

Parameters:
  - context: context.Context
  - filter: Filter (keyword, categories, seller)
  - page: pagination.Params

Returns:
  - *Page: listings plus total count
  - error: Database execution errors
*/
func (repository *PostgresRepository) Search(context context.Context, filter Filter, page pagination.Params) (*Page, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s l
		WHERE l.%s IS NULL`,
		selectColumns,
		schema.MarketListing.Table,
		schema.MarketListing.DeletedAt,
	))

	// Visibility
	if filter.SellerID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND l.%s = $%d AND l.%s <> '%s'",
			schema.MarketListing.SellerID, argID, schema.MarketListing.Status, StatusRemoved))
		args = append(args, filter.SellerID)
		argID++
	} else {
		queryBuilder.WriteString(fmt.Sprintf(" AND l.%s = '%s'", schema.MarketListing.Status, StatusActive))
	}

	// Keyword matching on title and description
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (l.%s ILIKE $%d OR l.%s ILIKE $%d)",
			schema.MarketListing.Title, argID, schema.MarketListing.Description, argID))
		args = append(args, "%"+likeEscaper.Replace(filter.Query)+"%")
		argID++
	}

	// Category filtering
	if len(filter.Categories) > 0 {
		categories := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			categories[i] = string(category)
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND l.%s = ANY($%d)", schema.MarketListing.Category, argID))
		args = append(args, categories)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY l.%s DESC, l.%s DESC LIMIT $%d OFFSET $%d",
		schema.MarketListing.CreatedAt, schema.MarketListing.ID, argID, argID+1))
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_listing_repo_search_failed: %w", err)
	}
	defer rows.Close()

	result := &Page{Items: []*Listing{}}
	for rows.Next() {
		var totalCount int
		listing, err := scanListing(rows, &totalCount)
		if err != nil {
			return nil, fmt.Errorf("postgres_listing_repo_scan_failed: %w", err)
		}
		result.Items = append(result.Items, listing)
		result.Total = totalCount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_listing_repo_search_rows_failed: %w", err)
	}

	// Past the last page the window count is unavailable
	if len(result.Items) == 0 && page.Offset() > 0 {
		total, err := repository.count(context, filter)
		if err != nil {
			return nil, err
		}
		result.Total = total
	}

	return result, nil
}

// count runs the Search predicate without paging.
func (repository *PostgresRepository) count(context context.Context, filter Filter) (int, error) {
	page, err := repository.Search(context, filter, pagination.Params{Page: 1, Limit: 1})
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

// FindByID retrieves a non-deleted listing by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s l WHERE l.%s = $1 AND l.%s IS NULL`,
		selectColumns,
		schema.MarketListing.Table,
		schema.MarketListing.ID,
		schema.MarketListing.DeletedAt,
	)

	listing, err := scanListing(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_listing_repo_find_by_id_failed: %w", err)
	}
	return listing, nil
}

/*
Create inserts a new listing row.

Returns:
  - error: BAD_REQUEST when the seller no longer exists, or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, listing *Listing) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s`,
		schema.MarketListing.Table,
		schema.MarketListing.ID,
		schema.MarketListing.SellerID,
		schema.MarketListing.Title,
		schema.MarketListing.Slug,
		schema.MarketListing.Description,
		schema.MarketListing.Price,
		schema.MarketListing.Category,
		schema.MarketListing.Condition,
		schema.MarketListing.Status,
		schema.MarketListing.ImageURLs,
		schema.MarketListing.CreatedAt,
		schema.MarketListing.UpdatedAt,
	)

	imageURLs := listing.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	err := repository.db.QueryRow(context, query,
		listing.ID,
		listing.SellerID,
		listing.Title,
		listing.Slug,
		listing.Description,
		listing.Price,
		string(listing.Category),
		string(listing.Condition),
		string(listing.Status),
		imageURLs,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Seller", "postgres_listing_repo_create_failed")
	}
	return nil
}

// SoftDelete hides a listing from every read.
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NOW(), %s = '%s', %s = NOW()
		WHERE %s = $1 AND %s IS NULL`,
		schema.MarketListing.Table,
		schema.MarketListing.DeletedAt,
		schema.MarketListing.Status, StatusRemoved,
		schema.MarketListing.UpdatedAt,
		schema.MarketListing.ID,
		schema.MarketListing.DeletedAt,
	)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_listing_repo_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanListing hydrates one row in [schema.MarketListingTable.Columns] order.
// Extra destinations are appended after the listing columns.
func scanListing(row pgx.Row, extra ...any) (*Listing, error) {
	var (
		listing   Listing
		category  string
		condition string
		status    string
	)

	destinations := append([]any{
		&listing.ID,
		&listing.SellerID,
		&listing.Title,
		&listing.Slug,
		&listing.Description,
		&listing.Price,
		&category,
		&condition,
		&status,
		&listing.ImageURLs,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}

	listing.Category = Category(category)
	listing.Condition = Condition(condition)
	listing.Status = Status(status)
	return &listing, nil
}

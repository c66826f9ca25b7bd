// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listing defines the second-hand items students put up for sale.

Core Responsibility:

  - Catalogue: listing entity, categories, item condition and lifecycle status.
  - Discovery: public keyword search (optionally cached) and authenticated browse.
  - Ownership: only the seller or a moderator may remove a listing.
*/
package listing

import (
	"context"
	"time"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/pkg/pagination"
)

// # Domain Enums

// Status is the lifecycle state of a listing.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusSold    Status = "SOLD"
	StatusRemoved Status = "REMOVED"
)

// Category groups listings for filtering.
type Category string

const (
	CategoryBooks       Category = "BOOKS"
	CategoryElectronics Category = "ELECTRONICS"
	CategoryFurniture   Category = "FURNITURE"
	CategoryClothing    Category = "CLOTHING"
	CategorySports      Category = "SPORTS"
	CategoryOther       Category = "OTHER"
)

// IsValid reports whether c is a recognised [Category].
func (c Category) IsValid() bool {
	switch c {
	case
		CategoryBooks,
		CategoryElectronics,
		CategoryFurniture,
		CategoryClothing,
		CategorySports,
		CategoryOther:
		return true
	}
	return false
}

// Condition describes the wear of the item.
type Condition string

const (
	ConditionNew     Condition = "NEW"
	ConditionLikeNew Condition = "LIKE_NEW"
	ConditionGood    Condition = "GOOD"
	ConditionFair    Condition = "FAIR"
)

// # Core Entities

// Listing is a single item offered for sale.
type Listing struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       int64     `json:"price"` // Minor currency units
	Category    Category  `json:"category"`
	Condition   Condition `json:"condition"`
	Status      Status    `json:"status"`
	ImageURLs   []string  `json:"imageUrls"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// # Search & Filtering

// Filter holds the parameters of a listing query.
type Filter struct {
	Query      string     `json:"q,omitempty"`
	Categories []Category `json:"category,omitempty"`
	SellerID   string     `json:"seller,omitempty"`
}

// Page is one page of listings plus the total match count.
type Page struct {
	Items []*Listing `json:"items"`
	Total int        `json:"total"`
}

// ErrNotFound is returned when no live listing matches. Compare with errors.Is.
var ErrNotFound = apperr.NotFound("Listing")

// # Contracts

// Repository defines the persistence contract for listings.
type Repository interface {
	// Search returns active, non-deleted listings matching filter, newest first.
	Search(ctx context.Context, filter Filter, page pagination.Params) (*Page, error)

	// FindByID returns a non-deleted listing. Returns [ErrNotFound].
	FindByID(ctx context.Context, id string) (*Listing, error)

	// Create inserts a listing and fills its timestamps.
	Create(ctx context.Context, listing *Listing) error

	// SoftDelete marks a listing REMOVED and hides it from every read.
	SoftDelete(ctx context.Context, id string) error
}

// SearchCache stores public search pages for a short time.
type SearchCache interface {
	// Get returns the cached page, or found=false on a miss.
	Get(ctx context.Context, filter Filter, page pagination.Params) (result *Page, found bool, err error)

	// Set stores a page under its filter.
	Set(ctx context.Context, filter Filter, page pagination.Params, result *Page) error

	// Invalidate drops every cached page after a write.
	Invalidate(ctx context.Context) error
}

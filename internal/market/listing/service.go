// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/sec"
	"github.com/taibuivan/unimart/internal/platform/validate"
	"github.com/taibuivan/unimart/pkg/pagination"
	"github.com/taibuivan/unimart/pkg/slug"
	"github.com/taibuivan/unimart/pkg/uuid"
)

// MaxQueryLength caps the search keyword in runes.
const MaxQueryLength = 100

// Service orchestrates listing use cases.
type Service struct {
	listingRepository Repository
	searchCache       SearchCache
	logger            *slog.Logger
}

// NewService constructs a new [Service]. cache may be nil to disable caching.
func NewService(listingRepo Repository, cache SearchCache, logger *slog.Logger) *Service {
	return &Service{
		listingRepository: listingRepo,
		searchCache:       cache,
		logger:            logger,
	}
}

// # Discovery

/*
Search returns active listings matching a keyword and categories.

Description: This is the anonymous entry point. Pages are served from the
search cache when one is configured. Cache failures are logged and fall
through to the database.

Parameters:
  - context: context.Context
  - filter: Filter (SellerID is ignored)
  - page: pagination.Params

Returns:
  - *Page: matching listings
  - error: VALIDATION_ERROR for unknown categories, or storage failures
*/
func (service *Service) Search(context context.Context, filter Filter, page pagination.Params) (*Page, error) {
	filter.SellerID = ""
	if err := checkCategories(filter.Categories); err != nil {
		return nil, err
	}

	if service.searchCache != nil {
		cached, found, err := service.searchCache.Get(context, filter, page)
		if err != nil {
			service.logger.WarnContext(context, "listing_search_cache_read_failed", slog.Any("error", err))
		} else if found {
			return cached, nil
		}
	}

	result, err := service.listingRepository.Search(context, filter, page)
	if err != nil {
		return nil, fmt.Errorf("listing_service_search_failed: %w", err)
	}

	if service.searchCache != nil {
		if err := service.searchCache.Set(context, filter, page, result); err != nil {
			service.logger.WarnContext(context, "listing_search_cache_write_failed", slog.Any("error", err))
		}
	}

	return result, nil
}

// Browse is the authenticated, uncached listing feed. A seller filter also
// shows that seller's sold items.
func (service *Service) Browse(context context.Context, filter Filter, page pagination.Params) (*Page, error) {
	if err := checkCategories(filter.Categories); err != nil {
		return nil, err
	}

	result, err := service.listingRepository.Search(context, filter, page)
	if err != nil {
		return nil, fmt.Errorf("listing_service_browse_failed: %w", err)
	}
	return result, nil
}

// Get retrieves a single live listing.
func (service *Service) Get(context context.Context, id string) (*Listing, error) {
	listing, err := service.listingRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("listing_service_get_failed: %w", err)
	}
	return listing, nil
}

// # Mutations

// CreateInput is the payload for a new listing.
type CreateInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"max=4000"`
	Price       *int64   `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,oneof=BOOKS ELECTRONICS FURNITURE CLOTHING SPORTS OTHER"`
	Condition   string   `json:"condition" validate:"required,oneof=NEW LIKE_NEW GOOD FAIR"`
	ImageURLs   []string `json:"imageUrls" validate:"max=8,dive,url"`
}

/*
Create publishes a new listing owned by the caller.

Parameters:
  - context: context.Context
  - seller: *sec.Principal (the authenticated caller)
  - input: CreateInput

Returns:
  - *Listing: the stored listing
  - error: UNAUTHORIZED, VALIDATION_ERROR, or storage failures
*/
func (service *Service) Create(context context.Context, seller *sec.Principal, input CreateInput) (*Listing, error) {
	if seller == nil {
		return nil, apperr.Unauthorized()
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.ToUpper(strings.TrimSpace(input.Category))
	input.Condition = strings.ToUpper(strings.TrimSpace(input.Condition))

	if err := validate.Struct(&input); err != nil {
		return nil, err
	}

	id := uuid.New()
	listing := &Listing{
		ID:          id,
		SellerID:    seller.AccountID,
		Title:       input.Title,
		Slug:        slug.WithSuffix(input.Title, uuid.Short(id)),
		Description: strings.TrimSpace(input.Description),
		Price:       *input.Price,
		Category:    Category(input.Category),
		Condition:   Condition(input.Condition),
		Status:      StatusActive,
		ImageURLs:   input.ImageURLs,
	}

	if err := service.listingRepository.Create(context, listing); err != nil {
		return nil, fmt.Errorf("listing_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "listing_created",
		slog.String("listing_id", listing.ID),
		slog.String("seller_id", listing.SellerID),
	)
	service.invalidate(context)

	return listing, nil
}

/*
Delete removes a listing.

Description: The seller may delete their own listing. Administrators may delete
any listing. Everyone else is refused without revealing who owns it.

Returns:
  - error: UNAUTHORIZED, FORBIDDEN, BAD_REQUEST (not found), or storage failures
*/
func (service *Service) Delete(context context.Context, actor *sec.Principal, id string) error {
	if actor == nil {
		return apperr.Unauthorized()
	}

	listing, err := service.listingRepository.FindByID(context, id)
	if err != nil {
		return fmt.Errorf("listing_service_delete_lookup_failed: %w", err)
	}

	if listing.SellerID != actor.AccountID && !actor.IsAdmin() {
		service.logger.WarnContext(context, "listing_delete_denied",
			slog.String("listing_id", id),
			slog.String("actor_id", actor.AccountID),
		)
		return apperr.Forbidden()
	}

	if err := service.listingRepository.SoftDelete(context, id); err != nil {
		return fmt.Errorf("listing_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "listing_deleted",
		slog.String("listing_id", id),
		slog.String("actor_id", actor.AccountID),
	)
	service.invalidate(context)

	return nil
}

// invalidate drops cached search pages. On failure stale pages live until their TTL.
func (service *Service) invalidate(context context.Context) {
	if service.searchCache == nil {
		return
	}
	if err := service.searchCache.Invalidate(context); err != nil {
		service.logger.WarnContext(context, "listing_search_cache_invalidate_failed", slog.Any("error", err))
	}
}

// checkCategories rejects unknown category filters.
func checkCategories(categories []Category) error {
	for _, category := range categories {
		if !category.IsValid() {
			return apperr.FieldError("category", "Must be one of: BOOKS, ELECTRONICS, FURNITURE, CLOTHING, SPORTS, OTHER")
		}
	}
	return nil
}

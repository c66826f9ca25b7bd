// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/unimart/internal/market/listing"
	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/sec"
	"github.com/taibuivan/unimart/pkg/pagination"
)

var (
	firstPage = pagination.Params{Page: 1, Limit: 20}

	alice = &sec.Principal{AccountID: "0190f3a8-0000-7000-8000-000000000001", Subject: "alice@univ.edu", Role: sec.RoleUser, Status: sec.StatusActive}
	bob   = &sec.Principal{AccountID: "0190f3a8-0000-7000-8000-000000000002", Subject: "bob@univ.edu", Role: sec.RoleUser, Status: sec.StatusActive}
	admin = &sec.Principal{AccountID: "0190f3a8-0000-7000-8000-000000000009", Subject: "root@univ.edu", Role: sec.RoleAdmin, Status: sec.StatusActive}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func price(v int64) *int64 { return &v }

/*
TestSearch_CacheHitSkipsRepository serves a cached page without touching SQL.
*/
func TestSearch_CacheHitSkipsRepository(t *testing.T) {
	repository := new(MockRepository)
	cache := new(MockSearchCache)
	filter := listing.Filter{Query: "calculus"}
	cached := &listing.Page{Items: []*listing.Listing{{ID: "l1"}}, Total: 1}

	cache.On("Get", mock.Anything, filter, firstPage).Return(cached, true, nil)

	result, err := listing.NewService(repository, cache, discardLogger()).Search(context.Background(), filter, firstPage)

	require.NoError(t, err)
	assert.Same(t, cached, result)
	repository.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

/*
TestSearch_CacheMissPopulates stores the repository result after a miss.
*/
func TestSearch_CacheMissPopulates(t *testing.T) {
	repository := new(MockRepository)
	cache := new(MockSearchCache)
	filter := listing.Filter{Categories: []listing.Category{listing.CategoryBooks}}
	fresh := &listing.Page{Items: []*listing.Listing{}, Total: 0}

	cache.On("Get", mock.Anything, filter, firstPage).Return(nil, false, nil)
	repository.On("Search", mock.Anything, filter, firstPage).Return(fresh, nil)
	cache.On("Set", mock.Anything, filter, firstPage, fresh).Return(nil)

	result, err := listing.NewService(repository, cache, discardLogger()).Search(context.Background(), filter, firstPage)

	require.NoError(t, err)
	assert.Same(t, fresh, result)
	repository.AssertExpectations(t)
	cache.AssertExpectations(t)
}

/*
TestSearch_CacheFailureFallsThrough keeps search available when Redis is down.
*/
func TestSearch_CacheFailureFallsThrough(t *testing.T) {
	repository := new(MockRepository)
	cache := new(MockSearchCache)
	fresh := &listing.Page{Items: []*listing.Listing{}}

	cache.On("Get", mock.Anything, mock.Anything, firstPage).Return(nil, false, errors.New("i/o timeout"))
	repository.On("Search", mock.Anything, mock.Anything, firstPage).Return(fresh, nil)
	cache.On("Set", mock.Anything, mock.Anything, firstPage, fresh).Return(errors.New("i/o timeout"))

	result, err := listing.NewService(repository, cache, discardLogger()).Search(context.Background(), listing.Filter{}, firstPage)

	require.NoError(t, err)
	assert.Same(t, fresh, result)
}

/*
TestSearch_IgnoresSellerAndRejectsUnknownCategory keeps the public search narrow.
*/
func TestSearch_IgnoresSellerAndRejectsUnknownCategory(t *testing.T) {
	repository := new(MockRepository)
	repository.On("Search", mock.Anything, listing.Filter{}, firstPage).Return(&listing.Page{}, nil)
	service := listing.NewService(repository, nil, discardLogger())

	_, err := service.Search(context.Background(), listing.Filter{SellerID: alice.AccountID}, firstPage)
	require.NoError(t, err)
	repository.AssertExpectations(t)

	_, err = service.Search(context.Background(), listing.Filter{Categories: []listing.Category{"WEAPONS"}}, firstPage)
	require.Error(t, err)
	classified := apperr.Classify(err)
	assert.Equal(t, apperr.CodeValidation, classified.Code)
	assert.Contains(t, classified.Details, "category")
}

/*
TestCreate builds the listing from the caller and payload.
*/
func TestCreate(t *testing.T) {
	repository := new(MockRepository)
	cache := new(MockSearchCache)

	repository.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	created, err := listing.NewService(repository, cache, discardLogger()).Create(context.Background(), alice, listing.CreateInput{
		Title:     "  Giải tích 1 Textbook ",
		Price:     price(120000),
		Category:  "books",
		Condition: "like_new",
		ImageURLs: []string{"https://cdn.unimart.app/uploads/a.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, alice.AccountID, created.SellerID)
	assert.Equal(t, "Giải tích 1 Textbook", created.Title)
	assert.True(t, strings.HasPrefix(created.Slug, "giai-tich-1-textbook-"), created.Slug)
	assert.Equal(t, listing.CategoryBooks, created.Category)
	assert.Equal(t, listing.ConditionLikeNew, created.Condition)
	assert.Equal(t, listing.StatusActive, created.Status)
	assert.Equal(t, int64(120000), created.Price)
	repository.AssertExpectations(t)
	cache.AssertExpectations(t)
}

/*
TestCreate_Validation reports every invalid field by its JSON name.
*/
func TestCreate_Validation(t *testing.T) {
	repository := new(MockRepository)
	service := listing.NewService(repository, nil, discardLogger())

	_, err := service.Create(context.Background(), alice, listing.CreateInput{
		Title:     "ab",
		Price:     price(-1),
		Category:  "WEAPONS",
		ImageURLs: []string{"not a url"},
	})

	require.Error(t, err)
	classified := apperr.Classify(err)
	assert.Equal(t, apperr.CodeValidation, classified.Code)
	for _, field := range []string{"title", "price", "category", "condition", "imageUrls[0]"} {
		assert.Contains(t, classified.Details, field)
	}
	repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	_, err = service.Create(context.Background(), nil, listing.CreateInput{})
	assert.Equal(t, apperr.CodeUnauthorized, apperr.Classify(err).Code)
}

/*
TestDelete allows the seller and administrators only.
*/
func TestDelete(t *testing.T) {
	const listingID = "0190f3a8-0000-7000-8000-0000000000aa"
	owned := &listing.Listing{ID: listingID, SellerID: alice.AccountID, Status: listing.StatusActive}

	tests := []struct {
		name     string
		actor    *sec.Principal
		found    error
		wantCode string
	}{
		{name: "seller", actor: alice},
		{name: "admin", actor: admin},
		{name: "other user", actor: bob, wantCode: apperr.CodeForbidden},
		{name: "anonymous", actor: nil, wantCode: apperr.CodeUnauthorized},
		{name: "missing listing", actor: alice, found: listing.ErrNotFound, wantCode: apperr.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := new(MockRepository)
			if tt.found != nil {
				repository.On("FindByID", mock.Anything, listingID).Return(nil, tt.found)
			} else {
				repository.On("FindByID", mock.Anything, listingID).Return(owned, nil)
			}
			repository.On("SoftDelete", mock.Anything, listingID).Return(nil)

			err := listing.NewService(repository, nil, discardLogger()).Delete(context.Background(), tt.actor, listingID)

			if tt.wantCode == "" {
				require.NoError(t, err)
				repository.AssertCalled(t, "SoftDelete", mock.Anything, listingID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.Classify(err).Code)
			repository.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
		})
	}
}

/*
TestSearchKey maps equivalent filters onto one key.
*/
func TestSearchKey(t *testing.T) {
	a := listing.SearchKey(listing.Filter{Query: "Lamp", Categories: []listing.Category{"FURNITURE", "BOOKS"}}, firstPage)
	b := listing.SearchKey(listing.Filter{Query: "lamp", Categories: []listing.Category{"BOOKS", "FURNITURE", "BOOKS"}}, firstPage)
	c := listing.SearchKey(listing.Filter{Query: "lamp"}, firstPage)
	d := listing.SearchKey(listing.Filter{Query: "Lamp", Categories: []listing.Category{"FURNITURE", "BOOKS"}}, pagination.Params{Page: 2, Limit: 20})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.True(t, strings.HasPrefix(a, "market:listing_search:"))
	assert.NotContains(t, a, "lamp")
}

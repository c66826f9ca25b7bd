// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taibuivan/unimart/internal/market/listing"
	"github.com/taibuivan/unimart/pkg/pagination"
)

// MockRepository implements listing.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Search(ctx context.Context, filter listing.Filter, page pagination.Params) (*listing.Page, error) {
	args := m.Called(ctx, filter, page)
	result, _ := args.Get(0).(*listing.Page)
	return result, args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*listing.Listing)
	return result, args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, item *listing.Listing) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSearchCache implements listing.SearchCache
type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, filter listing.Filter, page pagination.Params) (*listing.Page, bool, error) {
	args := m.Called(ctx, filter, page)
	result, _ := args.Get(0).(*listing.Page)
	return result, args.Bool(1), args.Error(2)
}

func (m *MockSearchCache) Set(ctx context.Context, filter listing.Filter, page pagination.Params, result *listing.Page) error {
	args := m.Called(ctx, filter, page, result)
	return args.Error(0)
}

func (m *MockSearchCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/unimart/pkg/pagination"
)

/*
TestFromRequest clamps invalid query values to defaults.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", pagination.DefaultPage, pagination.DefaultLimit},
		{"page=3&limit=10", 3, 10},
		{"page=-2&limit=0", pagination.DefaultPage, pagination.DefaultLimit},
		{"page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
		{"limit=1000&page=99999", pagination.MaxPage, pagination.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/listings?"+tt.query, nil)
			params := pagination.FromRequest(request)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

/*
TestOffsetAndMeta derives SQL offsets and page counts.
*/
func TestOffsetAndMeta(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())

	meta := pagination.NewMeta(2, 20, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
}

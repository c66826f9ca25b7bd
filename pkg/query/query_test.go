// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/unimart/pkg/query"
)

/*
TestStringSlice splits, trims, and drops empty entries.
*/
func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"a", "b"}, query.StringSlice(" a, ,b ,"))
	assert.Equal(t, []string{"BOOKS", "ELECTRONICS"}, query.UpperSlice("books, electronics"))
}

/*
TestText caps free text by rune count.
*/
func TestText(t *testing.T) {
	assert.Equal(t, "giải", query.Text("  giải tích  ", 4))
	assert.Equal(t, "lamp", query.Text("lamp", 100))
}

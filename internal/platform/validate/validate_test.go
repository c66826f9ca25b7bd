// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/validate"
)

type listingPayload struct {
	Title    string   `json:"title" validate:"required,max=120"`
	Slug     string   `json:"slug" validate:"omitempty,slug"`
	Price    int64    `json:"price" validate:"gte=0"`
	Category string   `json:"category" validate:"required,oneof=BOOKS ELECTRONICS FURNITURE OTHER"`
	Images   []string `json:"imageUrls" validate:"max=3,dive,url"`
	Internal string   `json:"-" validate:"omitempty"`
}

/*
TestStruct_Valid accepts a well-formed payload.
*/
func TestStruct_Valid(t *testing.T) {
	err := validate.Struct(listingPayload{
		Title:    "Calculus textbook",
		Slug:     "calculus-textbook",
		Price:    1500,
		Category: "BOOKS",
		Images:   []string{"https://cdn.unimart.app/a.jpg"},
	})
	assert.NoError(t, err)
}

/*
TestStruct_DetailsUseJSONNames checks that details are keyed by the wire field name.
*/
func TestStruct_DetailsUseJSONNames(t *testing.T) {
	err := validate.Struct(listingPayload{
		Title:    "",
		Slug:     "Not A Slug",
		Price:    -1,
		Category: "CARS",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	tests := map[string]string{
		"title":    "This field is required",
		"slug":     "Is invalid",
		"price":    "Must be at least 0",
		"category": "Must be one of: BOOKS, ELECTRONICS, FURNITURE, OTHER",
	}
	assert.Len(t, ae.Details, len(tests))
	for field, message := range tests {
		assert.Equal(t, message, ae.Details[field], field)
	}
}

/*
TestStruct_DiveReportsElement reports invalid slice entries under their indexed name.
*/
func TestStruct_DiveReportsElement(t *testing.T) {
	err := validate.Struct(listingPayload{
		Title:    "Desk lamp",
		Category: "FURNITURE",
		Images:   []string{"not a url"},
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Must be a valid URL", ae.Details["imageUrls[0]"])
}

/*
TestVar validates a single value under a caller-chosen field name.
*/
func TestVar(t *testing.T) {
	assert.NoError(t, validate.Var("status", "ACTIVE", "required,oneof=ACTIVE SUSPENDED"))

	err := validate.Var("status", "BANNED", "required,oneof=ACTIVE SUSPENDED")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Must be one of: ACTIVE, SUSPENDED", ae.Details["status"])
}

/*
TestErrInvalidJSON is a business-rule failure, not a field failure.
*/
func TestErrInvalidJSON(t *testing.T) {
	assert.Equal(t, apperr.CodeBadRequest, validate.ErrInvalidJSON.Code)
	assert.Equal(t, "This field is required", validate.RequiredError("email").Details["email"])
}

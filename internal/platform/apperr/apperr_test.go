// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

type signupPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Age      int    `validate:"gte=16"`
}

/*
TestClassify_Table checks every failure category against its code, status, and message policy.
*/
func TestClassify_Table(t *testing.T) {
	validationErr := validator.New().Struct(signupPayload{Email: "nope", Password: "short", Age: 3})
	require.Error(t, validationErr)

	var syntaxErr error = &json.SyntaxError{Offset: 3}

	tests := []struct {
		name    string
		err     error
		code    string
		status  int
		message string
	}{
		{"field_validation", validationErr, apperr.CodeValidation, http.StatusBadRequest, apperr.MsgValidation},
		{"business_rule_with_message", apperr.BadRequest("Listing is already sold"), apperr.CodeBadRequest, http.StatusBadRequest, "Listing is already sold"},
		{"business_rule_without_message", &apperr.AppError{Code: apperr.CodeBadRequest}, apperr.CodeBadRequest, http.StatusBadRequest, apperr.MsgBadRequest},
		{"not_found_is_business_rule", apperr.NotFound("Listing"), apperr.CodeBadRequest, http.StatusBadRequest, "Listing not found"},
		{"forbidden", apperr.Forbidden(), apperr.CodeForbidden, http.StatusForbidden, apperr.MsgForbidden},
		{"forbidden_custom_text_suppressed", &apperr.AppError{Code: apperr.CodeForbidden, Message: "requires ADMIN role"}, apperr.CodeForbidden, http.StatusForbidden, apperr.MsgForbidden},
		{"unauthorized", apperr.Unauthorized(), apperr.CodeUnauthorized, http.StatusUnauthorized, apperr.MsgUnauthorized},
		{"expired_token", fmt.Errorf("auth: %w", sec.ErrTokenExpired), apperr.CodeUnauthorized, http.StatusUnauthorized, apperr.MsgUnauthorized},
		{"malformed_token", sec.ErrTokenMalformed, apperr.CodeUnauthorized, http.StatusUnauthorized, apperr.MsgUnauthorized},
		{"json_syntax", syntaxErr, apperr.CodeBadRequest, http.StatusBadRequest, "Malformed request body"},
		{"plain_error", errors.New("pq: relation \"users.account\" does not exist"), apperr.CodeInternal, http.StatusInternalServerError, apperr.MsgInternal},
		{"context_deadline", context.DeadlineExceeded, apperr.CodeInternal, http.StatusInternalServerError, apperr.MsgInternal},
		{"unknown_code", &apperr.AppError{Code: "TEAPOT", Message: "short and stout"}, apperr.CodeInternal, http.StatusInternalServerError, apperr.MsgInternal},
		{"nil_error", nil, apperr.CodeInternal, http.StatusInternalServerError, apperr.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := apperr.Classify(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.code, classified.Code)
			assert.Equal(t, tt.status, classified.HTTPStatus)
			assert.Equal(t, tt.message, classified.Message)
		})
	}
}

/*
TestClassify_ValidationDetails ensures one detail entry per invalid field, keyed by field name.
*/
func TestClassify_ValidationDetails(t *testing.T) {
	err := validator.New().Struct(signupPayload{Email: "", Password: "short", Age: 3})
	classified := apperr.Classify(err)

	require.Equal(t, apperr.CodeValidation, classified.Code)
	assert.Len(t, classified.Details, 3)
	assert.Equal(t, "This field is required", classified.Details["Email"])
	assert.Equal(t, "Minimum 8 characters", classified.Details["Password"])
	assert.Equal(t, "Must be at least 16", classified.Details["Age"])
}

/*
TestClassify_WrappedAppError keeps the wrapping chain as the logged cause.
*/
func TestClassify_WrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("listing_service_delete_failed: %w", apperr.Forbidden())

	classified := apperr.Classify(wrapped)
	assert.Equal(t, apperr.CodeForbidden, classified.Code)
	assert.ErrorIs(t, classified, wrapped)
	assert.NotContains(t, classified.Message, "listing_service")
}

/*
TestClassify_InternalHidesCause verifies internal detail never reaches the client message.
*/
func TestClassify_InternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")

	classified := apperr.Classify(cause)
	assert.Equal(t, apperr.CodeInternal, classified.Code)
	assert.False(t, strings.Contains(classified.Error(), "10.0.0.5"))
	assert.ErrorIs(t, classified, cause)
}

/*
TestClassify_DoesNotMutateSentinel returns copies so shared errors stay untouched.
*/
func TestClassify_DoesNotMutateSentinel(t *testing.T) {
	sentinel := apperr.BadRequest("Invalid JSON payload")

	classified := apperr.Classify(sentinel)
	classified.Message = "changed"

	assert.Equal(t, "Invalid JSON payload", sentinel.Message)
}

/*
TestHelpers covers As, IsAppError, and FieldError.
*/
func TestHelpers(t *testing.T) {
	err := fmt.Errorf("wrap: %w", apperr.FieldError("price", "Must be at least 0"))

	assert.True(t, apperr.IsAppError(err))
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, "Must be at least 0", ae.Details["price"])

	assert.False(t, apperr.IsAppError(errors.New("plain")))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/unimart/internal/platform/sec"
)

// # Classification

/*
Classify maps any error onto exactly one of the five response kinds.

Order matters, the first matching category wins:

 1. An [*AppError] anywhere in the chain, normalized to its canonical status and message.
 2. [validator.ValidationErrors] from struct-tag validation (VALIDATION_ERROR).
 3. Token failures from [sec] (UNAUTHORIZED).
 4. Request body decoding failures (BAD_REQUEST).
 5. Everything else (INTERNAL_SERVER_ERROR).

Classify never returns nil and never panics. The returned value is always a fresh
copy, so callers may not mutate shared sentinel errors through it.
*/
func Classify(err error) *AppError {
	if err == nil {
		return Internal(errors.New("apperr: classify called without an error"))
	}

	if appError := As(err); appError != nil {
		return normalize(appError, err)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return FromValidation(validationErrors)
	}

	if sec.IsCredentialError(err) {
		return Unauthorized().WithCause(err)
	}

	if isDecodeError(err) {
		return BadRequest("Malformed request body").WithCause(err)
	}

	return Internal(err)
}

// normalize re-derives status and message from the code so a hand-built AppError
// can never pair a code with the wrong status or leak text on a fixed-message code.
func normalize(appError *AppError, original error) *AppError {
	cause := appError.Cause
	if cause == nil && error(appError) != original {
		cause = original
	}

	switch appError.Code {
	case CodeValidation:
		result := ValidationError(appError.Details)
		result.Cause = cause
		return result
	case CodeBadRequest:
		return BadRequest(appError.Message).WithCause(cause)
	case CodeForbidden:
		return Forbidden().WithCause(cause)
	case CodeUnauthorized:
		return Unauthorized().WithCause(cause)
	case CodeInternal:
		return Internal(cause)
	default:
		return Internal(fmt.Errorf("apperr: unknown code %q: %w", appError.Code, original))
	}
}

// isDecodeError reports JSON body decoding failures.
func isDecodeError(err error) bool {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	return errors.As(err, &syntaxError) ||
		errors.As(err, &typeError) ||
		errors.As(err, &maxBytesError) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// # Validator Translation

// FromValidation converts struct-tag validation failures into a VALIDATION_ERROR
// with one entry per invalid field.
func FromValidation(validationErrors validator.ValidationErrors) *AppError {
	details := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		if _, exists := details[field]; exists {
			continue
		}
		details[field] = fieldMessage(fieldError)
	}
	return ValidationError(details)
}

// fieldMessage renders a client-facing sentence for a single failed tag.
func fieldMessage(fieldError validator.FieldError) string {
	param := fieldError.Param()

	switch fieldError.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min", "gte":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("Minimum %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max", "lte":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("Maximum %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.Join(strings.Fields(param), ", "))
	case "url", "http_url":
		return "Must be a valid URL"
	case "dive":
		return "Contains an invalid entry"
	default:
		return "Is invalid"
	}
}

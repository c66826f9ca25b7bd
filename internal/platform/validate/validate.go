// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate runs struct-tag validation on request payloads and turns
// failures into a single VALIDATION_ERROR [apperr.AppError].
//
// # Architecture
//
// Handlers decode, services validate. Field names in the resulting details use
// the payload's JSON names so clients can map messages back onto their form.
package validate

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/unimart/internal/platform/apperr"
)

var (
	// slugRegex matches slug format: lowercase letters, digits, hyphens.
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.BadRequest("Invalid JSON payload")

	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator instance.
//
// validator.Validate caches struct metadata and is safe for concurrent use,
// so one instance serves the whole process.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(jsonFieldName)
		_ = engine.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRegex.MatchString(fl.Field().String())
		})
	})
	return engine
}

// Struct validates target against its `validate` tags.
// It returns nil or a VALIDATION_ERROR carrying one message per invalid field.
func Struct(target any) error {
	err := Engine().Struct(target)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Internal(err)
	}
	return apperr.FromValidation(validationErrors)
}

// Var validates a single value against a tag expression and reports failures
// under the given field name.
//
// # Example
//
//	validate.Var("status", body.Status, "required,oneof=ACTIVE SUSPENDED DEACTIVATED")
func Var(field string, value any, tag string) error {
	err := Engine().Var(value, tag)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return apperr.Internal(err)
	}

	message := apperr.FromValidation(validationErrors[:1]).Details[""]
	return apperr.FieldError(field, message)
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field string) *apperr.AppError {
	return apperr.FieldError(field, "This field is required")
}

// jsonFieldName reports the JSON key for a struct field, or the Go name when untagged.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

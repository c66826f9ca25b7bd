// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/unimart/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Mapping
//   - pgx.ErrNoRows: "<resource> not found" (BAD_REQUEST)
//   - unique_violation (23505): "<resource> already exists" (BAD_REQUEST)
//   - foreign_key_violation (23503): "<resource> references a missing record" (BAD_REQUEST)
//   - anything else: INTERNAL_SERVER_ERROR with the action recorded in the cause
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	if pgError, ok := AsPgError(err); ok {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.BadRequest(resource + " references a missing record").WithCause(err)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	pgError, ok := AsPgError(err)
	return ok && pgError.Code == pgerrcode.UniqueViolation
}

// AsPgError extracts the server-side error from err's chain.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError, true
	}
	return nil, false
}

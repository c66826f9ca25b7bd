// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns the student account record and everything that reads it.

It is the only package that talks to the users.account table. The request
authenticator reaches it exclusively through [IdentityResolver], which rebuilds
the principal from the live record on every request.

# Architecture

  - Entities: Account.
  - Contracts: Repository (persistence), IdentityResolver (authentication).
  - Delivery: profile and admin status endpoints.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

// # Domain Entities

// Account is a registered member of the marketplace.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"displayName"`
	Role         sec.Role   `json:"role"`
	Status       sec.Status `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Principal projects the account onto the per-request identity.
func (a *Account) Principal() *sec.Principal {
	return &sec.Principal{
		AccountID: a.ID,
		Subject:   a.Email,
		Role:      a.Role,
		Status:    a.Status,
	}
}

// ErrNotFound is returned by repositories when no account matches.
// Compare with errors.Is.
var ErrNotFound = apperr.NotFound("Account")

// # Repository Contracts

// Finder is the read-only lookup the identity resolver depends on.
type Finder interface {
	// FindBySubject loads an account by its normalized email. Returns [ErrNotFound].
	FindBySubject(ctx context.Context, subject string) (*Account, error)
}

// Repository defines the persistence contract for accounts.
type Repository interface {
	Finder

	/*
		FindByID retrieves an account by its unique ID.

		Returns:
		  - *Account: Loaded account entity
		  - error: [ErrNotFound] or storage failures
	*/
	FindByID(ctx context.Context, id string) (*Account, error)

	/*
		Create inserts a new account. The email must already be normalized.

		Returns:
		  - error: a BAD_REQUEST conflict when the email is taken, or storage failures
	*/
	Create(ctx context.Context, account *Account) error

	// UpdateStatus changes the lifecycle status and returns the updated record.
	UpdateStatus(ctx context.Context, id string, status sec.Status) (*Account, error)
}

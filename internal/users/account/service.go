// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

// # Service Layer

// Service orchestrates profile reads and administrative status changes.
type Service struct {
	accountRepository Repository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo Repository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile

/*
Profile retrieves the account of the authenticated caller.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the caller)

Returns:
  - *Account: The hydrated account
  - error: Not found or execution failures
*/
func (service *Service) Profile(context context.Context, principal *sec.Principal) (*Account, error) {
	if principal == nil {
		return nil, apperr.Unauthorized()
	}

	account, err := service.accountRepository.FindByID(context, principal.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_profile_failed: %w", err)
	}
	return account, nil
}

// # Moderation

/*
ChangeStatus suspends, deactivates or reactivates an account.

Description: Only administrators may change status, and an administrator can
never change their own status. The change is visible to the authenticator on
the target's very next request.

Parameters:
  - context: context.Context
  - actor: *sec.Principal (the administrator)
  - accountID: string
  - status: sec.Status

Returns:
  - *Account: The updated account
  - error: FORBIDDEN for non-admins, BAD_REQUEST for invalid input
*/
func (service *Service) ChangeStatus(context context.Context, actor *sec.Principal, accountID string, status sec.Status) (*Account, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}

	// Business: Only moderators manage account status
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden()
	}

	if !status.Valid() {
		return nil, apperr.FieldError("status", "Must be one of: ACTIVE, SUSPENDED, DEACTIVATED")
	}

	// Business: An administrator cannot lock themselves out
	if actor.AccountID == accountID {
		return nil, apperr.BadRequest("You cannot change the status of your own account")
	}

	account, err := service.accountRepository.UpdateStatus(context, accountID, status)
	if err != nil {
		return nil, fmt.Errorf("account_service_change_status_failed: %w", err)
	}

	service.logger.Info("account_status_changed",
		slog.String("account_id", accountID),
		slog.String("status", string(status)),
		slog.String("actor_id", actor.AccountID),
	)

	return account, nil
}

// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements registration and password login.

It is the only place that issues tokens. Every other package only ever sees the
principal the request authenticator rebuilt from a validated token.

Architecture:

  - Service: Register and Login use cases over the account repository.
  - Security: bcrypt password hashes and signed, time-bounded bearer tokens.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/internal/platform/sec"
	"github.com/taibuivan/unimart/internal/platform/validate"
	"github.com/taibuivan/unimart/internal/users/account"
	"github.com/taibuivan/unimart/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer mints bearer tokens for an authenticated subject.
type TokenIssuer interface {
	// Issue signs a token whose subject is the account email.
	Issue(subject string) (string, error)

	// TTL reports how long issued tokens stay valid.
	TTL() time.Duration
}

// Session is the transport-ready result of a successful register or login.
type Session struct {
	Token     string           `json:"token"`
	TokenType string           `json:"tokenType"`
	ExpiresIn int64            `json:"expiresIn"`
	User      *account.Account `json:"user"`
}

// Service implements the credential use cases.
type Service struct {
	accountRepository account.Repository
	tokenIssuer       TokenIssuer
	logger            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(accountRepo account.Repository, issuer TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		tokenIssuer:       issuer,
		logger:            logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new student.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=60"`
}

/*
Register validates, hashes, and persists a brand new account, then signs it in.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: token plus the created profile
  - error: VALIDATION_ERROR, BAD_REQUEST for a taken email, or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	input.Email = sec.NormalizeSubject(input.Email)

	if err := validate.Struct(&input); err != nil {
		return nil, err
	}
	if len(input.Password) > PasswordMaxLength {
		return nil, apperr.FieldError(FieldPassword, fmt.Sprintf("Maximum %d bytes", PasswordMaxLength))
	}

	// Fast path for a friendly message. The unique index still guards races.
	if _, err := service.accountRepository.FindBySubject(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	created := &account.Account{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.RoleUser,
		Status:       sec.StatusActive,
	}

	if err := service.accountRepository.Create(context, created); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.Info("account_registered", slog.String("account_id", created.ID))

	return service.issue(created)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

/*
Login verifies credentials and issues a bearer token.

Description: Unknown email, wrong password and a non-active account all fail
with the same UNAUTHORIZED error. An unknown email still pays for one bcrypt
comparison so response timing does not reveal registration.

Returns:
  - *Session: token plus the caller's profile
  - error: VALIDATION_ERROR, UNAUTHORIZED, or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	if err := validate.Struct(&input); err != nil {
		return nil, err
	}

	found, err := service.accountRepository.FindBySubject(context, sec.NormalizeSubject(input.Email))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			sec.BurnPasswordCheck(input.Password)
			service.logger.InfoContext(context, "login_failed", slog.String("reason", "unknown_email"))
			return nil, apperr.Unauthorized()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, found.PasswordHash) {
		service.logger.InfoContext(context, "login_failed",
			slog.String("reason", "wrong_password"),
			slog.String("account_id", found.ID),
		)
		return nil, apperr.Unauthorized()
	}

	if found.Status != sec.StatusActive {
		service.logger.InfoContext(context, "login_failed",
			slog.String("reason", "account_inactive"),
			slog.String("account_id", found.ID),
		)
		return nil, apperr.Unauthorized()
	}

	return service.issue(found)
}

// issue signs a token for acct and wraps it in a [Session].
func (service *Service) issue(acct *account.Account) (*Session, error) {
	token, err := service.tokenIssuer.Issue(acct.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &Session{
		Token:     token,
		TokenType: constants.BearerScheme,
		ExpiresIn: int64(service.tokenIssuer.TTL().Seconds()),
		User:      acct,
	}, nil
}

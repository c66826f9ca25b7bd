// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/internal/platform/ctxutil"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

// Failure reasons recorded on the request when no principal is attached.
// They reach the logs only, never the client.
const (
	ReasonMissingCredential    = "missing_credential"
	ReasonInvalidScheme        = "invalid_scheme"
	ReasonTokenExpired         = "token_expired"
	ReasonTokenMalformed       = "token_malformed"
	ReasonIdentityNotFound     = "identity_not_found"
	ReasonAccountInactive      = "account_inactive"
	ReasonIdentityLookupFailed = "identity_lookup_failed"
)

// TokenValidator verifies a bearer token and returns its subject.
//
// Defining it here decouples the middleware from [sec.TokenCodec] so tests can
// inject fakes.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// PrincipalResolver loads the live account behind a token subject.
// It returns [sec.ErrIdentityNotFound] when no account matches. A nil principal
// with a nil error is treated the same way.
type PrincipalResolver interface {
	Resolve(ctx context.Context, subject string) (*sec.Principal, error)
}

// Authenticate extracts the bearer token, validates it and resolves the account.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>'. Anything else counts as no credential.
//  2. Validate the token via [TokenValidator].
//  3. Resolve the subject via [PrincipalResolver] and require an ACTIVE account.
//  4. Attach the [*sec.Principal] to the request context.
//
// The middleware never rejects a request. Every failure leaves the request
// anonymous with a recorded reason, and the access policy decides whether that is
// acceptable for the path. A second invocation on the same request is a no-op.
func Authenticate(validator TokenValidator, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Idempotency ────────────────────────────────────────────────
			if _, seen := ctxutil.GetAuthAttempt(ctx); seen {
				next.ServeHTTP(writer, request)
				return
			}

			principal, reason := authenticate(ctx, request.Header.Get(constants.HeaderAuthorization), validator, resolver)

			// ── 2. Context Injection ──────────────────────────────────────────
			ctx = ctxutil.WithAuthAttempt(ctx, ctxutil.AuthAttempt{FailureReason: reason})
			if principal != nil {
				ctx = ctxutil.WithPrincipal(ctx, principal)
				trackIdentity(ctx, principal.Subject)
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// authenticate runs the credential state machine and returns either a principal
// or the reason the request stays anonymous.
func authenticate(ctx context.Context, header string, validator TokenValidator, resolver PrincipalResolver) (*sec.Principal, string) {
	logger := ctxutil.GetLogger(ctx)

	token, reason := bearerToken(header)
	if reason != "" {
		return nil, reason
	}

	subject, err := validator.Validate(token)
	if err != nil {
		reason = ReasonTokenMalformed
		if errors.Is(err, sec.ErrTokenExpired) {
			reason = ReasonTokenExpired
		}
		logger.DebugContext(ctx, "auth_token_rejected", slog.String("reason", reason), slog.Any("error", err))
		return nil, reason
	}

	principal, err := resolver.Resolve(ctx, subject)
	switch {
	case errors.Is(err, sec.ErrIdentityNotFound), err == nil && principal == nil:
		logger.InfoContext(ctx, "auth_identity_not_found", slog.String("subject", subject))
		return nil, ReasonIdentityNotFound
	case err != nil:
		logger.ErrorContext(ctx, "auth_identity_lookup_failed",
			slog.String("subject", subject),
			slog.Any("error", err),
		)
		return nil, ReasonIdentityLookupFailed
	case !principal.IsActive():
		logger.InfoContext(ctx, "auth_account_inactive",
			slog.String("subject", subject),
			slog.String("status", string(principal.Status)),
		)
		return nil, ReasonAccountInactive
	}

	return principal, ""
}

// bearerToken splits the Authorization header. The scheme is case-sensitive and
// must be followed by exactly one space.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", ReasonMissingCredential
	}

	token, found := strings.CutPrefix(header, constants.BearerScheme+" ")
	if !found {
		return "", ReasonInvalidScheme
	}
	return token, ""
}

// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package policy

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/ctxutil"
	"github.com/taibuivan/unimart/internal/platform/respond"
)

// Enforce admits or rejects each request before any business handler runs.
//
// # Usage
//
// Mount after the authenticator and after any stage that rewrites the routing
// path. A rejected request receives the generic UNAUTHORIZED response while the
// authenticator's recorded failure reason goes to the log.
func Enforce(p *Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			if p.DecideRequest(request) == Permit || ctxutil.GetPrincipal(ctx) != nil {
				next.ServeHTTP(writer, request)
				return
			}

			reason := "not_authenticated"
			if attempt, ok := ctxutil.GetAuthAttempt(ctx); ok && attempt.FailureReason != "" {
				reason = attempt.FailureReason
			}

			ctxutil.GetLogger(ctx).WarnContext(ctx, "policy_rejected",
				slog.String("path", request.URL.Path),
				slog.String("route_path", RoutePath(request)),
				slog.String("reason", reason),
			)
			respond.Error(writer, request, apperr.Unauthorized())
		})
	}
}

// DecideRequest permits a request only when both the router's matching path and
// the decoded URL path fall under a [Permit] rule.
//
// The router matches on the escaped path, where "%2E%2E" and "%2F" are plain
// text, while the decoded path resolves them.
func (p *Policy) DecideRequest(request *http.Request) Mode {
	if p.Decide(RoutePath(request)) != Permit {
		return RequireAuth
	}
	return p.Decide(request.URL.Path)
}

// RoutePath returns the path the chi router matches the request against.
func RoutePath(request *http.Request) string {
	if routeContext := chi.RouteContext(request.Context()); routeContext != nil && routeContext.RoutePath != "" {
		return routeContext.RoutePath
	}
	if request.URL.RawPath != "" {
		return request.URL.RawPath
	}
	return request.URL.Path
}

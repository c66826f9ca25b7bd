// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/ctxutil"
	"github.com/taibuivan/unimart/internal/platform/respond"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

// RequireRole blocks requests whose principal does not hold at least role.
//
// # Usage
//
// Mount on a route group after [Authenticate]. An anonymous request gets 401
// and an authenticated one with an insufficient role gets 403. The response never
// names the role that was required.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized())
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.AtLeast(role) {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "authz_role_denied",
					slog.String("subject", principal.Subject),
					slog.String("role", string(principal.Role)),
					slog.String("required", string(role)),
				)
				respond.Error(writer, request, apperr.Forbidden())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

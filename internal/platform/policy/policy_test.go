// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package policy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/ctxutil"
	"github.com/taibuivan/unimart/internal/platform/policy"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

/*
TestDecide_DefaultTable walks the default admission table.
*/
func TestDecide_DefaultTable(t *testing.T) {
	p := policy.MustNew(policy.DefaultRules())

	tests := []struct {
		path string
		mode policy.Mode
	}{
		{"/api/auth/login", policy.Permit},
		{"/api/auth/register", policy.Permit},
		{"/api/auth", policy.Permit},
		{"/api/health", policy.Permit},
		{"/api/health/", policy.Permit},
		{"/v3/api-docs", policy.Permit},
		{"/swagger-ui/index.html", policy.Permit},
		{"/api/listings/search", policy.Permit},
		{"/api/listings/search/../42", policy.RequireAuth},
		{"/api/listings", policy.RequireAuth},
		{"/api/listings/searchable", policy.RequireAuth},
		{"/api/healthz", policy.RequireAuth},
		{"/api/authx/login", policy.RequireAuth},
		{"/uploads/listing/1.jpg", policy.RequireAuth},
		{"/api/users/me", policy.RequireAuth},
		{"/api/auth/../users/me", policy.RequireAuth},
		{"//api//health", policy.Permit},
		{"", policy.RequireAuth},
		{"/", policy.RequireAuth},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.mode, p.Decide(tt.path))
		})
	}
}

/*
TestDecide_FirstMatchWins lets an earlier rule shadow a later one.
*/
func TestDecide_FirstMatchWins(t *testing.T) {
	p := policy.MustNew([]policy.Rule{
		{Pattern: "/api/listings/search", Mode: policy.Permit},
		{Pattern: "/api/listings/**", Mode: policy.RequireAuth},
		{Pattern: "/api/listings/featured", Mode: policy.Permit},
	})

	assert.Equal(t, policy.Permit, p.Decide("/api/listings/search"))
	assert.Equal(t, policy.RequireAuth, p.Decide("/api/listings/featured"))
}

/*
TestDecide_FailClosed requires auth when no rule matches.
*/
func TestDecide_FailClosed(t *testing.T) {
	p := policy.MustNew([]policy.Rule{{Pattern: "/api/health", Mode: policy.Permit}})
	assert.Equal(t, policy.RequireAuth, p.Decide("/api/anything"))
}

/*
TestDefaultRules_ExtraPublic inserts configured patterns before the catch-all.
*/
func TestDefaultRules_ExtraPublic(t *testing.T) {
	rules := policy.DefaultRules("/api/campuses/**", "  ", "/api/status")
	require.NotEmpty(t, rules)

	last := rules[len(rules)-1]
	assert.Equal(t, policy.Rule{Pattern: "/**", Mode: policy.RequireAuth}, last)

	p := policy.MustNew(rules)
	assert.Equal(t, policy.Permit, p.Decide("/api/campuses/hcmut"))
	assert.Equal(t, policy.Permit, p.Decide("/api/status"))
	assert.Len(t, p.Rules(), len(rules))
}

/*
TestNew_RejectsInvalidRules refuses ambiguous or unnormalized patterns.
*/
func TestNew_RejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule policy.Rule
	}{
		{"relative", policy.Rule{Pattern: "api/health", Mode: policy.Permit}},
		{"inner_wildcard", policy.Rule{Pattern: "/api/*/health", Mode: policy.Permit}},
		{"trailing_single_star", policy.Rule{Pattern: "/api/*", Mode: policy.Permit}},
		{"trailing_slash", policy.Rule{Pattern: "/api/health/", Mode: policy.Permit}},
		{"dot_segment", policy.Rule{Pattern: "/api/../health", Mode: policy.Permit}},
		{"unknown_mode", policy.Rule{Pattern: "/api/health", Mode: policy.Mode(7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.New([]policy.Rule{tt.rule})
			assert.Error(t, err)
		})
	}

	_, err := policy.New(nil)
	assert.Error(t, err)
	assert.Panics(t, func() { policy.MustNew(nil) })
}

/*
TestNormalize canonicalizes request paths.
*/
func TestNormalize(t *testing.T) {
	assert.Equal(t, "/", policy.Normalize(""))
	assert.Equal(t, "/api/health", policy.Normalize("api/health"))
	assert.Equal(t, "/api/health", policy.Normalize("/api//health/"))
	assert.Equal(t, "/api/users/me", policy.Normalize("/api/auth/../users/./me"))
	assert.Equal(t, "/", policy.Normalize("/../.."))
}

/*
TestDecideRequest permits only when the escaped and decoded paths both match a
public rule.
*/
func TestDecideRequest(t *testing.T) {
	p := policy.MustNew(policy.DefaultRules())

	tests := []struct {
		target string
		mode   policy.Mode
	}{
		{"/api/health", policy.Permit},
		{"/api/listings/search?q=desk%2Flamp", policy.Permit},
		{"/api/auth/login", policy.Permit},
		{"/uploads/x/%2E%2E/%2E%2E/api/health", policy.RequireAuth},
		{"/uploads/x%2F..%2F..%2Fapi%2Fhealth", policy.RequireAuth},
		{"/api/auth/%2E%2E/users/me", policy.RequireAuth},
		{"/api/auth/x%2F..%2F..%2Fusers/me", policy.RequireAuth},
		{"/swagger-ui/%2e%2e/api/users/me", policy.RequireAuth},
		{"/api/health/%2E%2E/ready", policy.RequireAuth},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.mode, p.DecideRequest(request))
		})
	}
}

/*
TestRoutePath prefers the router's cleaned path, then the escaped URL path.
*/
func TestRoutePath(t *testing.T) {
	t.Run("escaped path without a route context", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/uploads/x/%2E%2E/api/health", nil)
		assert.Equal(t, "/uploads/x/%2E%2E/api/health", policy.RoutePath(request))
	})

	t.Run("plain path without a route context", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		assert.Equal(t, "/api/users/me", policy.RoutePath(request))
	})

	t.Run("route context set by the router", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api//health/", nil)
		routeContext := chi.NewRouteContext()
		routeContext.RoutePath = "/api/health"
		request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))

		assert.Equal(t, "/api/health", policy.RoutePath(request))
	})

	t.Run("enforced behind path cleaning", func(t *testing.T) {
		reached := false
		router := chi.NewRouter()
		router.Use(chimw.CleanPath)
		router.Use(policy.Enforce(policy.MustNew(policy.DefaultRules())))
		router.Get("/uploads/*", func(http.ResponseWriter, *http.Request) { reached = true })

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/uploads/x/%2E%2E/%2E%2E/api/health", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, reached)
	})
}

/*
TestEnforce admits permitted paths and principals, and rejects the rest with 401.
*/
func TestEnforce(t *testing.T) {
	p := policy.MustNew(policy.DefaultRules())
	reached := false
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	})
	handler := policy.Enforce(p)(next)

	alice := &sec.Principal{Subject: "alice@univ.edu", Role: sec.RoleUser, Status: sec.StatusActive}

	tests := []struct {
		name      string
		path      string
		principal *sec.Principal
		attempt   *ctxutil.AuthAttempt
		status    int
	}{
		{"public_without_principal", "/api/health", nil, nil, http.StatusOK},
		{"public_with_bad_token", "/api/listings/search", nil, &ctxutil.AuthAttempt{FailureReason: "token_malformed"}, http.StatusOK},
		{"protected_with_principal", "/api/users/me", alice, &ctxutil.AuthAttempt{}, http.StatusOK},
		{"protected_without_principal", "/api/users/me", nil, &ctxutil.AuthAttempt{FailureReason: "missing_credential"}, http.StatusUnauthorized},
		{"unlisted_path", "/internal/metrics", nil, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			ctx := request.Context()
			if tt.attempt != nil {
				ctx = ctxutil.WithAuthAttempt(ctx, *tt.attempt)
			}
			if tt.principal != nil {
				ctx = ctxutil.WithPrincipal(ctx, tt.principal)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request.WithContext(ctx))

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.status == http.StatusOK, reached)

			if tt.status == http.StatusUnauthorized {
				var body map[string]any
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, apperr.CodeUnauthorized, body["code"])
				assert.Equal(t, apperr.MsgUnauthorized, body["message"])
				assert.Equal(t, tt.path, body["path"])
				assert.NotEmpty(t, body["requestId"])
				assert.NotContains(t, recorder.Body.String(), "missing_credential")
			}
		})
	}
}

// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taibuivan/unimart/internal/platform/sec"
)

// MockTokenValidator implements middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// MockPrincipalResolver implements middleware.PrincipalResolver
type MockPrincipalResolver struct {
	mock.Mock
}

func (m *MockPrincipalResolver) Resolve(ctx context.Context, subject string) (*sec.Principal, error) {
	args := m.Called(ctx, subject)
	principal, _ := args.Get(0).(*sec.Principal)
	return principal, args.Error(1)
}

// stubConfig implements middleware.AppConfig
type stubConfig struct {
	development bool
	origins     []string
}

func (c stubConfig) IsDevelopment() bool      { return c.development }
func (c stubConfig) AllowedOrigins() []string { return c.origins }

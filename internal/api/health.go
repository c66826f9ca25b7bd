// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /api/ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(ctx context.Context) error

	// CheckCache pings the Redis client. Nil when Redis is not configured.
	CheckCache func(ctx context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the liveness and readiness http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /api/health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /api/ready.
//
// A failing dependency yields INTERNAL_SERVER_ERROR. Which dependency failed is
// only logged.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]string{}
	var failures []error

	for _, dependency := range []struct {
		name  string
		check func(ctx context.Context) error
	}{
		{name: "postgres", check: handler.dependencies.CheckDatabase},
		{name: "redis", check: handler.dependencies.CheckCache},
	} {
		if dependency.check == nil {
			continue
		}

		if err := dependency.check(request.Context()); err != nil {
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
			failures = append(failures, fmt.Errorf("%s: %w", dependency.name, err))
			continue
		}
		checks[dependency.name] = "ok"
	}

	if len(failures) > 0 {
		respond.Error(writer, request, apperr.Internal(errors.Join(failures...)))
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: checks,
	})
}

// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every success uses the {"data": ...} envelope and every failure goes through
// [Error], which is the only place an error is turned into bytes on the wire.
package respond

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/internal/platform/ctxutil"
	"github.com/taibuivan/unimart/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorResponse is the stable error wire format shared with every client.
type ErrorResponse struct {
	RequestID string            `json:"requestId"`
	Timestamp time.Time         `json:"timestamp"`
	Path      string            `json:"path"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes a 200 OK response with paginated data and a metadata block.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// # Error Responses

// Error classifies err and writes the matching [ErrorResponse].
//
// A fresh correlation id is generated for every call and logged next to the
// server-side detail, so support can match a client report to the log line
// without the response ever carrying a cause or stack trace.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	classified := apperr.Classify(err)
	body := ErrorResponse{
		RequestID: newCorrelationID(),
		Timestamp: time.Now().UTC(),
		Path:      request.URL.Path,
		Code:      classified.Code,
		Message:   classified.Message,
		Details:   classified.Details,
	}

	logError(request, classified, body.RequestID)
	JSON(writer, classified.HTTPStatus, body)
}

// logError records the classified failure at a level matching its severity.
func logError(request *http.Request, classified *apperr.AppError, correlationID string) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	attrs := []any{
		slog.String("correlation_id", correlationID),
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
		slog.String("code", classified.Code),
		slog.String("path", request.URL.Path),
	}
	if classified.Cause != nil {
		attrs = append(attrs, slog.String("cause", classified.Cause.Error()))
	}

	switch {
	case classified.HTTPStatus >= http.StatusInternalServerError:
		logger.ErrorContext(ctx, "api_server_error", attrs...)
	case classified.HTTPStatus == http.StatusUnauthorized || classified.HTTPStatus == http.StatusForbidden:
		logger.WarnContext(ctx, "api_access_denied", attrs...)
	default:
		logger.DebugContext(ctx, "api_client_error", attrs...)
	}
}

// newCorrelationID returns a time-sortable id, degrading to weaker sources
// instead of failing because an error response must always be produced.
func newCorrelationID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fmt.Sprintf("err-%d", time.Now().UnixNano())
}

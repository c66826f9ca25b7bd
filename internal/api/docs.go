// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	_ "embed"
	"net/http"

	"github.com/taibuivan/unimart/internal/platform/constants"
)

var (
	//go:embed docs/openapi.json
	openAPIDocument []byte

	//go:embed docs/swagger.html
	swaggerPage []byte
)

// serveOpenAPI handles GET /v3/api-docs.
func serveOpenAPI(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(openAPIDocument)
}

// serveSwaggerUI handles GET /swagger-ui and everything below it.
func serveSwaggerUI(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(swaggerPage)
}

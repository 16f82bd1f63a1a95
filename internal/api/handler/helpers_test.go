package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/edvin/hrbank/internal/api/response"
	"github.com/go-chi/chi/v5"
)

// newRequest creates a new HTTP request without a body.
func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body.
func decodeErrorResponse(rec *httptest.ResponseRecorder) response.ErrorResponse {
	var body response.ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

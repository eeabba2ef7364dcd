package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/olmosO/doggys/pkg/errors"
)

// detailResponse mirrors the error body the shop backend returns on non-2xx
// responses, e.g. {"detail": "Pedido no encontrado"}.
type detailResponse struct {
	Detail string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the body matches the backend's
// {"detail": ...} format the message is preserved; otherwise a generic error
// carries the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", operation, resp.StatusCode, err)
	}

	var body detailResponse
	if json.Unmarshal(bodyBytes, &body) == nil && body.Detail != "" {
		return mapBackendError(resp.StatusCode, body.Detail, operation)
	}

	// Fallback: unstructured error body.
	return apperrors.Backend(resp.StatusCode, fmt.Sprintf("%s returned status %d: %s", operation, resp.StatusCode, string(bodyBytes)))
}

// mapBackendError translates the backend's HTTP status and detail message into
// an AppError preserving the error semantics.
func mapBackendError(status int, detail, operation string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", operation, detail)

	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: qualifiedMsg,
			Status:  status,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	default:
		return apperrors.Backend(status, qualifiedMsg)
	}
}

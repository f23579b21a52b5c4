package ghclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/locale"
)

// CheckResponse decodes a successful response body into v, or classifies a
// failed response into an *APIError. The body of a successful response is
// trusted as-is; no schema validation is done.
func CheckResponse(resp *http.Response, v any, messages locale.Messages) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if v == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", requestPath(resp), err)
		}
		return nil
	}
	return Classify(resp, messages)
}

// Classify turns a non-successful response into an *APIError. Precedence:
// 404, then 403 with an exhausted quota, then 5xx, then everything else.
func Classify(resp *http.Response, messages locale.Messages) *APIError {
	apiErr := &APIError{
		Message:    messages.Unexpected,
		StatusCode: resp.StatusCode,
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Message = messages.NotFound

	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		apiErr.RateLimit = true
		apiErr.Message = messages.RateLimited
		if resetAt, ok := parseReset(resp.Header.Get("X-RateLimit-Reset")); ok {
			apiErr.ResetAt = resetAt
			apiErr.Message = fmt.Sprintf(messages.RateLimitedUntil, resetAt.Local().Format(constants.RateLimitResetLayout))
		}

	case resp.StatusCode >= http.StatusInternalServerError:
		apiErr.Message = messages.ServerError
	}

	return apiErr
}

// parseReset parses an X-RateLimit-Reset value (Unix seconds).
func parseReset(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

func requestPath(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return "response"
	}
	return resp.Request.URL.Path
}

package ghclient

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/locale"
)

var testMessages = locale.Messages{
	NotFound:         "not found",
	RateLimited:      "rate limited",
	RateLimitedUntil: "rate limited until %s",
	ServerError:      "server error",
	Unexpected:       "unexpected",
	Network:          "network",
}

func newResponse(status int, headers map[string]string, body string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClassify(t *testing.T) {
	reset := time.Date(2026, 3, 1, 14, 30, 5, 0, time.UTC)
	resetHeader := strconv.FormatInt(reset.Unix(), 10)

	tests := []struct {
		name        string
		status      int
		headers     map[string]string
		wantMessage string
		wantLimit   bool
	}{
		{"not found", 404, nil, "not found", false},
		{"not found wins over rate limit headers", 404, map[string]string{"X-RateLimit-Remaining": "0"}, "not found", false},
		{"rate limited with reset", 403, map[string]string{"X-RateLimit-Remaining": "0", "X-RateLimit-Reset": resetHeader},
			"rate limited until " + reset.Local().Format(constants.RateLimitResetLayout), true},
		{"rate limited without reset", 403, map[string]string{"X-RateLimit-Remaining": "0"}, "rate limited", true},
		{"rate limited with bad reset", 403, map[string]string{"X-RateLimit-Remaining": "0", "X-RateLimit-Reset": "soon"}, "rate limited", true},
		{"forbidden with quota left", 403, map[string]string{"X-RateLimit-Remaining": "12"}, "unexpected", false},
		{"internal server error", 500, nil, "server error", false},
		{"bad gateway", 502, nil, "server error", false},
		{"unprocessable", 422, nil, "unexpected", false},
		{"unauthorized", 401, nil, "unexpected", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(newResponse(tt.status, tt.headers, ""), testMessages)
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if err.RateLimit != tt.wantLimit {
				t.Errorf("RateLimit = %v, want %v", err.RateLimit, tt.wantLimit)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
		})
	}
}

func TestClassifyRateLimitResetAt(t *testing.T) {
	resp := newResponse(403, map[string]string{
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     "1700000000",
	}, "")

	err := Classify(resp, testMessages)
	if !err.ResetAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("ResetAt = %v, want %v", err.ResetAt, time.Unix(1700000000, 0))
	}
}

func TestCheckResponseDecodesSuccess(t *testing.T) {
	resp := newResponse(200, nil, `{"name":"react","stargazers_count":5}`)

	var v struct {
		Name  string `json:"name"`
		Stars int    `json:"stargazers_count"`
	}
	if err := CheckResponse(resp, &v, testMessages); err != nil {
		t.Fatalf("CheckResponse() error = %v", err)
	}
	if v.Name != "react" || v.Stars != 5 {
		t.Errorf("decoded %+v", v)
	}
}

func TestCheckResponseMalformedBody(t *testing.T) {
	resp := newResponse(200, nil, `{"name":`)

	var v map[string]any
	err := CheckResponse(resp, &v, testMessages)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("decode failure should not be an APIError")
	}
}

func TestCheckResponseFailureIsAPIError(t *testing.T) {
	err := CheckResponse(newResponse(404, nil, `{"message":"Not Found"}`), nil, testMessages)

	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false", err)
	}
	if IsRateLimit(err) || IsTransport(err) {
		t.Error("404 should be neither rate limit nor transport")
	}
	if StatusCode(err) != 404 {
		t.Errorf("StatusCode() = %d, want 404", StatusCode(err))
	}
	if UserMessage(err) != "not found" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestTransportErrorKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&TransportError{Message: "network", Err: cause})

	if !IsTransport(err) {
		t.Error("IsTransport() = false")
	}
	if IsRateLimit(err) || IsNotFound(err) {
		t.Error("transport error misclassified")
	}
	if !errors.Is(err, cause) {
		t.Error("TransportError should unwrap to its cause")
	}
	if StatusCode(err) != 0 {
		t.Errorf("StatusCode() = %d, want 0", StatusCode(err))
	}
	if UserMessage(err) != "network" {
		t.Errorf("UserMessage() = %q, want %q", UserMessage(err), "network")
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorCodesAndStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("missing %s", "description"), CodeValidation, http.StatusBadRequest},
		{"invalid state", InvalidState("booking already committed"), CodeInvalidState, http.StatusConflict},
		{"invalid transition", InvalidTransition("accepted", "complete"), CodeInvalidTransition, http.StatusConflict},
		{"conflict", Conflict("slot already booked"), CodeConflict, http.StatusConflict},
		{"not found", NotFound("booking"), CodeNotFound, http.StatusNotFound},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"upstream", Upstream(errors.New("timeout"), "gateway unreachable"), CodeUpstream, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", tc.err.Code, tc.wantCode)
			}
			if tc.err.HTTPStatus != tc.wantStatus {
				t.Errorf("status = %d, want %d", tc.err.HTTPStatus, tc.wantStatus)
			}
		})
	}
}

func TestIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflict("slot already booked"))
	if !errors.Is(err, Conflict("")) {
		t.Error("expected errors.Is to match conflict errors by code")
	}
	if errors.Is(err, NotFound("booking")) {
		t.Error("conflict error must not match not-found")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream(cause, "gateway unreachable")
	if !errors.Is(err, cause) {
		t.Error("expected the upstream cause to be reachable via errors.Is")
	}
}

func TestUpstreamRetryable(t *testing.T) {
	err := UpstreamRetryable(errors.New("503"), "gateway busy", 30*time.Second)
	if err.RetryAfter != 30*time.Second {
		t.Errorf("retry after = %v, want 30s", err.RetryAfter)
	}
	if err.Code != CodeUpstream {
		t.Errorf("code = %q, want %q", err.Code, CodeUpstream)
	}
}

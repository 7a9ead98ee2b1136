package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrite_StatusPerKind(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"Validation", Validation("Email and password are required"), http.StatusBadRequest, ErrCodeInvalidInput},
		{"Conflict", Conflict("Email is already registered"), http.StatusBadRequest, ErrCodeConflict},
		{"Authentication", Authentication("Invalid credentials"), http.StatusForbidden, ErrCodeInvalidCredentials},
		{"Forbidden", Forbidden("not yours"), http.StatusForbidden, ErrCodeForbidden},
		{"Unauthorized", Unauthorized("log in"), http.StatusUnauthorized, ErrCodeUnauthorized},
		{"Not Found", NotFound("missing"), http.StatusNotFound, ErrCodeNotFound},
		{"Plain Error", stderrors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Write(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if got := rr.Header().Get("X-Error-Code"); got != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, got)
			}
			if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
				t.Errorf("Expected plain text body, got %s", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestInternal_DoesNotLeakCause(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, Internal(stderrors.New("bcrypt: secret detail")))

	if strings.Contains(rr.Body.String(), "secret detail") {
		t.Errorf("Internal error leaked its cause: %q", rr.Body.String())
	}
}

func TestIs_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("update link: %w", NotFound("missing"))

	if !Is(err, KindNotFound) {
		t.Error("Expected wrapped error to be NotFound")
	}
	if Is(err, KindConflict) {
		t.Error("Did not expect wrapped error to be Conflict")
	}
}

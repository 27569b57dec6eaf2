package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidRequest, "namespace is required"),
			want: "[INVALID_REQUEST] namespace is required",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInternal, "failed to read config", stderrors.New("boom")),
			want: "[INTERNAL] failed to read config: boom",
		},
		{
			name: "with sorted context",
			err: WrapWithContext(ErrCodeUnavailable, "cluster unreachable", stderrors.New("dial"),
				map[string]any{"namespace": "mongodb", "host": "api"}),
			want: "[UNAVAILABLE] cluster unreachable (host=api, namespace=mongodb): dial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, "outer", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the cause")
	}

	var se *StructuredError
	if !stderrors.As(error(err), &se) {
		t.Fatal("expected errors.As to match StructuredError")
	}
	if se.Code != ErrCodeInternal {
		t.Fatalf("expected code %s, got %s", ErrCodeInternal, se.Code)
	}
}

func TestCodeFromHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusUnprocessableEntity, ErrCodeInvalidRequest},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusForbidden, ErrCodeForbidden},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{http.StatusTooManyRequests, ErrCodeRateLimitExceeded},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusInternalServerError, ErrCodeInternal},
		{0, ErrCodeInternal},
	}

	for _, tt := range tests {
		if got := CodeFromHTTPStatus(tt.status); got != tt.want {
			t.Errorf("CodeFromHTTPStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

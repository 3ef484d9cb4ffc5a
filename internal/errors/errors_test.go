package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/nbhansali/drivefeed/internal/errors"
)

func TestFeedErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.FeedError
		want string
	}{
		{
			name: "with status code",
			err:  errors.NewTransportError(errors.New("not found"), "https://x/uc?id=1", 404),
			want: "[TRANSPORT] https://x/uc?id=1 (status: 404): not found",
		},
		{
			name: "without status code",
			err:  errors.NewFormatError(errors.ErrInvalidShareLink, "garbage"),
			want: "[FORMAT] garbage: invalid share link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryHelpers(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"format", errors.NewFormatError(cause, "x"), errors.IsFormatError},
		{"transport", errors.NewTransportError(cause, "x", 500), errors.IsTransportError},
		{"parse", errors.NewParseError(cause, "x"), errors.IsParseError},
		{"mapping", errors.NewTypeMismatchError(cause, "x"), errors.IsTypeMismatchError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("helper rejected its own category: %v", tt.err)
			}

			// Every helper must reject every other category.
			for _, other := range tests {
				if other.name == tt.name {
					continue
				}

				if tt.check(other.err) {
					t.Errorf("%s helper accepted %s error", tt.name, other.name)
				}
			}
		})
	}
}

func TestHelpersRejectPlainErrors(t *testing.T) {
	plain := stderrors.New("plain")

	if errors.IsFormatError(plain) || errors.IsTransportError(plain) ||
		errors.IsParseError(plain) || errors.IsTypeMismatchError(plain) {
		t.Error("category helper accepted a plain error")
	}

	if errors.StatusCode(plain) != 0 {
		t.Errorf("StatusCode(plain) = %d; want 0", errors.StatusCode(plain))
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := errors.NewParseError(cause, "content")

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is failed to find the cause through FeedError")
	}

	if errors.Unwrap(wrapped) != cause {
		t.Error("Unwrap did not return the original cause")
	}
}

func TestStatusCode(t *testing.T) {
	err := errors.NewTransportError(errors.New("gone"), "url", 410)

	if got := errors.StatusCode(err); got != 410 {
		t.Errorf("StatusCode = %d; want 410", got)
	}
}

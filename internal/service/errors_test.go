package service

import (
	"errors"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "fileId", Message: "cannot be empty"}
	want := "validation error on field fileId: cannot be empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapUpstream_Nil(t *testing.T) {
	if WrapUpstream("drive.files.list", nil) != nil {
		t.Error("WrapUpstream(nil) should return nil")
	}
}

func TestUpstreamError_Describe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "googleapi message preferred",
			err:      &googleapi.Error{Code: 403, Message: "The user does not have sufficient permissions"},
			fallback: "generic failure",
			want:     "The user does not have sufficient permissions",
		},
		{
			name:     "fallback when not a googleapi error",
			err:      errors.New("connection reset"),
			fallback: "generic failure",
			want:     "generic failure",
		},
		{
			name:     "fallback when message empty",
			err:      &googleapi.Error{Code: 500},
			fallback: "generic failure",
			want:     "generic failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapUpstream("sheets.values.get", tt.err)
			var ue *UpstreamError
			if !errors.As(wrapped, &ue) {
				t.Fatalf("WrapUpstream did not produce an UpstreamError: %v", wrapped)
			}
			if got := ue.Describe(tt.fallback); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpstreamStatus(t *testing.T) {
	err := WrapUpstream("drive.files.update", &googleapi.Error{Code: 403, Message: "forbidden"})
	if got := UpstreamStatus(err); got != 403 {
		t.Errorf("UpstreamStatus() = %d, want 403", got)
	}

	if got := UpstreamStatus(errors.New("plain")); got != 0 {
		t.Errorf("UpstreamStatus(plain) = %d, want 0", got)
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	inner := &googleapi.Error{Code: 404, Message: "File not found"}
	wrapped := WrapUpstream("drive.files.get", inner)

	var apiErr *googleapi.Error
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As should reach the googleapi.Error through UpstreamError")
	}
	if apiErr.Code != 404 {
		t.Errorf("unwrapped code = %d, want 404", apiErr.Code)
	}
}

package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}

func TestRequestIDFromHeader(t *testing.T) {
	valid := uuid.New().String()
	if got := RequestIDFromHeader(valid); got != valid {
		t.Fatalf("expected %q, got %q", valid, got)
	}

	for _, value := range []string{"", "not-a-uuid"} {
		got := RequestIDFromHeader(value)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("header %q: expected generated UUID, got %q: %v", value, got, err)
		}
		if got == value {
			t.Fatalf("header %q: expected a fresh id", value)
		}
	}
}

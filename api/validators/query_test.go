package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
)

func TestParseQueryIntDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/?other=1", nil)
	got, err := ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 25 {
		t.Fatalf("expected default 25 but got %d", got)
	}
}

func TestParseQueryIntRejectsOutOfRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParseQueryInt(r, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected an error for out-of-range value")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error but got %v", err)
	}
}

func TestParseQueryBoolAbsentIsNil(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	got, err := ParseQueryBool(r, "consumed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent parameter but got %v", *got)
	}
}

func TestParseQueryBoolParsesValue(t *testing.T) {
	r := httptest.NewRequest("GET", "/?consumed=true", nil)
	got, err := ParseQueryBool(r, "consumed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || !*got {
		t.Fatalf("expected true but got %v", got)
	}
}

func TestParsePathUUIDRejectsGarbage(t *testing.T) {
	if _, err := ParsePathUUID("not-a-uuid", "childId"); err == nil {
		t.Fatal("expected an error for malformed uuid")
	}
}

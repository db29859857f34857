package rerrors

import (
	"strings"
	"testing"
)

func TestNewFromRegisteredCode(t *testing.T) {
	e := New("V001")
	if e.Category != CategoryValidation {
		t.Fatalf("expected validation category, got %v", e.Category)
	}
	if e.Message == "" {
		t.Fatal("expected a non-empty message from the registry")
	}
}

func TestNewUnknownCode(t *testing.T) {
	e := New("Z999")
	if e.Message != "unregistered error code" {
		t.Fatalf("unexpected message for unknown code: %q", e.Message)
	}
}

func TestErrorImplementsUnwrap(t *testing.T) {
	cause := Newf(CategoryReactive, "boom")
	wrapped := New("R001").Wrap(cause)
	if wrapped.Unwrap() != cause {
		t.Fatal("expected Unwrap to return the wrapped cause")
	}
}

func TestFormatCompactIncludesCodeAndMessage(t *testing.T) {
	e := New("T001")
	got := e.FormatCompact()
	if got == "" {
		t.Fatal("expected a non-empty compact format")
	}
	if !strings.Contains(got, "T001") || !strings.Contains(got, e.Message) {
		t.Fatalf("expected compact format to include code and message, got %q", got)
	}
}

func TestFormatJSONIsWellFormedEnough(t *testing.T) {
	e := New("O001").WithSuggestion("wrap data in a function")
	got := e.FormatJSON()
	if got[0] != '{' || got[len(got)-1] != '}' {
		t.Fatalf("expected a JSON object, got %q", got)
	}
}

func TestRegisterAddsNewCode(t *testing.T) {
	Register("X001", Template{Category: CategoryCLI, Message: "test code"})
	e := New("X001")
	if e.Message != "test code" {
		t.Fatalf("expected registered template to be picked up, got %q", e.Message)
	}
}

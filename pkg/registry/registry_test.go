package registry

import (
	"context"
	"testing"
)

func TestPublishWithNilClientErrors(t *testing.T) {
	s := NewStore(nil, "bucket", "templates/")
	if err := s.Publish(context.Background(), Entry{Name: "card", Version: "1.0.0"}); err == nil {
		t.Fatal("expected an error with no configured client")
	}
}

func TestFetchWithNilClientErrors(t *testing.T) {
	s := NewStore(nil, "bucket", "templates/")
	if _, err := s.Fetch(context.Background(), "card", "1.0.0"); err == nil {
		t.Fatal("expected an error with no configured client")
	}
}

func TestKeyJoinsPrefixNameVersion(t *testing.T) {
	s := NewStore(nil, "bucket", "templates/")
	got := s.key("card", "1.0.0")
	want := "templates/card/1.0.0.json"
	if got != want {
		t.Fatalf("key() = %q, want %q", got, want)
	}
}

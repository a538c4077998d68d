package sessioncache

import "testing"

func TestPrimaryKeyFormat(t *testing.T) {
	if got, want := primaryKey("room-1", "alice"), "room:room-1:alice"; got != want {
		t.Fatalf("primaryKey() = %q, want %q", got, want)
	}
}

func TestNewRejectsEmptyAddrs(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected New to reject an empty address list")
	}
}

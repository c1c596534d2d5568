package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "abc")
	if got := Int("ENVUTIL_INT", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	t.Setenv("ENVUTIL_INT", " 42 ")
	if got := Int("ENVUTIL_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "off")
	if Bool("ENVUTIL_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("ENVUTIL_BOOL", "maybe")
	if !Bool("ENVUTIL_BOOL", true) {
		t.Fatalf("expected default true")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "90")
	if got := Duration("ENVUTIL_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	t.Setenv("ENVUTIL_DUR", "15m")
	if got := Duration("ENVUTIL_DUR", time.Minute); got != 15*time.Minute {
		t.Fatalf("expected 15m, got %s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("ENVUTIL_LIST", "a, b,,c ")
	got := List("ENVUTIL_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("unexpected list: %#v", got)
	}
}

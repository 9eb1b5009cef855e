package ingest

import "testing"

func TestStringify(t *testing.T) {
	if got := stringify(nil); got != "" {
		t.Fatalf("nil should stringify empty, got %q", got)
	}
	if got := stringify("abc"); got != "abc" {
		t.Fatalf("unexpected string: %q", got)
	}
	if got := stringify(float64(90)); got != "90" {
		t.Fatalf("whole float should drop the fraction, got %q", got)
	}
	if got := stringify(0.5); got != "0.5" {
		t.Fatalf("unexpected float: %q", got)
	}
	if got := stringify(float64(96000000000)); got != "96000000000" {
		t.Fatalf("large float should not go scientific, got %q", got)
	}
	if got := stringify(true); got != "1" {
		t.Fatalf("true should stringify as 1, got %q", got)
	}
	if got := stringify(false); got != "0" {
		t.Fatalf("false should stringify as 0, got %q", got)
	}
}

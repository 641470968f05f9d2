package util

import (
	"testing"
	"time"
)

func TestParseNavDate(t *testing.T) {
	got, ok := ParseNavDate("27-08-2026")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseNavDateISO(t *testing.T) {
	got, ok := ParseNavDate("2026-08-27")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Day() != 27 || got.Month() != 8 {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseNavDateDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := ParseNavDateDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
	if got := ParseNavDateDefault("31-13-2024", def); !got.Equal(def) {
		t.Fatalf("expected default for invalid date, got %v", got)
	}
}

func TestParseFloatDefault(t *testing.T) {
	if v := ParseFloatDefault("142.5182", 0); v != 142.5182 {
		t.Fatalf("unexpected %v", v)
	}
	if v := ParseFloatDefault("n/a", 1.5); v != 1.5 {
		t.Fatalf("expected default, got %v", v)
	}
}

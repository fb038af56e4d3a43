package services

import (
	"testing"
	"time"
)

func TestNextFiringSameDayBeforeHour(t *testing.T) {
	now := time.Date(2026, 8, 30, 7, 15, 0, 0, time.UTC)
	next := nextFiring(now, 9)
	want := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestNextFiringRollsToTomorrowAfterHour(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	next := nextFiring(now, 9)
	want := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

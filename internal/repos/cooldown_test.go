package repos

import (
	"testing"
	"time"
)

func TestInCooldownWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	usedAt := base

	// cooldown_days=10, multiplier=1.0: excluded at T+5, eligible at T+11.
	if !InCooldown(base.AddDate(0, 0, 5), usedAt, 10, 1.0) {
		t.Fatalf("item should still be cooling down at T+5")
	}
	if InCooldown(base.AddDate(0, 0, 11), usedAt, 10, 1.0) {
		t.Fatalf("item should be eligible again at T+11")
	}
}

func TestInCooldownMultiplier(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Multiplier 0 disables the window entirely (the ignore-cooldown
	// refetch path).
	if InCooldown(base.Add(time.Hour), base, 10, 0) {
		t.Fatalf("multiplier 0 should disable cooldown")
	}
	// Multiplier 2 doubles it.
	if !InCooldown(base.AddDate(0, 0, 15), base, 10, 2.0) {
		t.Fatalf("doubled window should cover T+15")
	}
	if InCooldown(base.AddDate(0, 0, 21), base, 10, 2.0) {
		t.Fatalf("doubled window should end before T+21")
	}
}

func TestInCooldownZeroDays(t *testing.T) {
	now := time.Now()
	if InCooldown(now, now, 0, 1.0) {
		t.Fatalf("cooldown_days=0 never cools down")
	}
}

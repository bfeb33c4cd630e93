package domain

import (
	"testing"
	"time"
)

func TestRoleRank(t *testing.T) {
	if !(RoleUser.Rank() < RoleAdmin.Rank() && RoleAdmin.Rank() < RoleSuperAdmin.Rank()) {
		t.Fatalf("role ranks out of order")
	}
	if Role("owner").Rank() >= RoleUser.Rank() {
		t.Fatalf("unknown role must rank below user")
	}
	if !RoleSuperAdmin.AtLeast(RoleAdmin) || RoleUser.AtLeast(RoleAdmin) {
		t.Fatalf("AtLeast comparison broken")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("  SuperAdmin "); !ok || r != RoleSuperAdmin {
		t.Fatalf("ParseRole: got %v %v", r, ok)
	}
	if _, ok := ParseRole("owner"); ok {
		t.Fatalf("unknown role must not parse")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestHasLiveToken(t *testing.T) {
	now := time.Now().UTC()
	a := &Account{VerificationToken: "tok", VerificationTokenExpiresAt: now.Add(time.Hour)}
	if !a.HasLiveToken(now) {
		t.Fatalf("token within expiry must be live")
	}
	if a.HasLiveToken(now.Add(2 * time.Hour)) {
		t.Fatalf("token past expiry must be dead")
	}
	if (&Account{}).HasLiveToken(now) {
		t.Fatalf("absent token must not be live")
	}
}

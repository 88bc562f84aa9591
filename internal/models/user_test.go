package models

import (
	"testing"
	"time"
)

func TestUserPasswordRoundTrip(t *testing.T) {
	var u User
	if err := u.SetPassword("s3cret-pass"); err != nil {
		t.Fatalf("SetPassword() error: %v", err)
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
	if !u.CheckPassword("s3cret-pass") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if u.CheckPassword("wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestUserIsSubscriptionExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"professor never expires", User{Role: RoleProfessor, SubscriptionEndDate: &past}, false},
		{"student without end date never expires", User{Role: RoleStudent}, false},
		{"student with future end date", User{Role: RoleStudent, SubscriptionEndDate: &future}, false},
		{"student with past end date", User{Role: RoleStudent, SubscriptionEndDate: &past}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsSubscriptionExpired(now); got != tt.want {
				t.Errorf("IsSubscriptionExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

package auth

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-helpdesk/backend/internal/cache/memory"
	"github.com/campus-helpdesk/backend/pkg/config"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	cfg := config.AuthConfig{
		Accounts: []config.AdminAccount{
			{
				Username:     "principal",
				PasswordHash: string(hash),
				FullName:     "Dr. Mehta",
				Role:         "superadmin",
			},
		},
		OTPValiditySec:      300,
		MaxLoginAttempts:    3,
		LockoutDurationSec:  900,
		SessionValidityMin:  60,
		RevealOTPInResponse: true,
	}

	return NewAuthenticator(cfg, memory.NewStore(), WithOTPGenerator(func() string { return "123456" }))
}

func TestLoginSuccessIssuesOTP(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	result, err := a.Login(ctx, "principal", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if result.Message != "Password verified. Please enter OTP." {
		t.Errorf("Message = %q", result.Message)
	}
	if result.OTP != "123456" {
		t.Errorf("OTP = %q, want the revealed demo code", result.OTP)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	result, err := a.Login(ctx, "principal", "wrong")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.OK {
		t.Fatal("expected failure")
	}
	if result.Message != "Invalid username or password. 2 attempts remaining." {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	a := newTestAuthenticator(t)

	result, err := a.Login(context.Background(), "nobody", "whatever")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.OK || result.Message != "Invalid username or password." {
		t.Errorf("result = %+v, must not reveal whether the user exists", result)
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	var last LoginResult
	for i := 0; i < 3; i++ {
		var err error
		last, err = a.Login(ctx, "principal", "wrong")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	if !strings.Contains(last.Message, "Account locked for 15 minutes") {
		t.Errorf("Message = %q, want a lockout notice", last.Message)
	}

	// Even the correct password is refused while locked.
	result, err := a.Login(ctx, "principal", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.OK || !strings.Contains(result.Message, "Account locked. Try again in") {
		t.Errorf("result = %+v, want a lockout refusal", result)
	}
}

func TestSuccessfulLoginResetsAttempts(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	if _, err := a.Login(ctx, "principal", "wrong"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := a.Login(ctx, "principal", "correct-horse"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The counter restarted, so the next failure reports a full set
	// of remaining attempts.
	result, err := a.Login(ctx, "principal", "wrong")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Message != "Invalid username or password. 2 attempts remaining." {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestVerifyOTPFlow(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	if _, err := a.Login(ctx, "principal", "correct-horse"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	wrong, err := a.VerifyOTP(ctx, "principal", "000000")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if wrong.OK || wrong.Message != "Invalid OTP. Please try again." {
		t.Errorf("result = %+v", wrong)
	}

	right, err := a.VerifyOTP(ctx, "principal", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if !right.OK {
		t.Fatalf("expected success, got %q", right.Message)
	}
	if right.Message != "Welcome, Dr. Mehta!" {
		t.Errorf("Message = %q", right.Message)
	}
	if right.Token == "" {
		t.Fatal("expected a session token")
	}
	if right.Session.Role != "superadmin" {
		t.Errorf("Role = %q", right.Session.Role)
	}

	// The code is single-use.
	again, err := a.VerifyOTP(ctx, "principal", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if again.OK {
		t.Error("a consumed OTP must not verify twice")
	}

	session, found, err := a.Validate(ctx, right.Token)
	if err != nil || !found {
		t.Fatalf("Validate: found=%v err=%v", found, err)
	}
	if session.Username != "principal" {
		t.Errorf("Username = %q", session.Username)
	}

	if err := a.Logout(ctx, right.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, found, _ := a.Validate(ctx, right.Token); found {
		t.Error("session must be gone after logout")
	}
}

func TestVerifyOTPWithoutLogin(t *testing.T) {
	a := newTestAuthenticator(t)

	result, err := a.VerifyOTP(context.Background(), "principal", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if result.OK {
		t.Fatal("expected failure without a pending OTP")
	}
	if result.Message != "OTP has expired or was not generated. Please login again." {
		t.Errorf("Message = %q", result.Message)
	}
}

// Package auth implements the two-step admin login: password check
// followed by a one-time code, with attempt lockout and expiring
// session tokens. All transient state lives in a Store.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-helpdesk/backend/pkg/config"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

const (
	otpKeyPrefix      = "admin:otp:"
	attemptsKeyPrefix = "admin:attempts:"
	lockoutKeyPrefix  = "admin:lockout:"
	sessionKeyPrefix  = "admin:session:"

	otpLength = 6
)

// Session is the authenticated admin identity attached to a token.
type Session struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// LoginResult reports the outcome of the password step. OTP is filled
// only when the deployment is configured to reveal it in the response.
type LoginResult struct {
	OK      bool
	Message string
	OTP     string
}

// VerifyResult reports the outcome of the OTP step.
type VerifyResult struct {
	OK      bool
	Message string
	Token   string
	Session Session
}

type Authenticator struct {
	store    Store
	accounts map[string]config.AdminAccount

	otpValidity     time.Duration
	maxAttempts     int64
	lockoutDuration time.Duration
	sessionValidity time.Duration
	revealOTP       bool

	generateOTP func() string
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithOTPGenerator replaces the random code generator, for tests.
func WithOTPGenerator(gen func() string) Option {
	return func(a *Authenticator) {
		a.generateOTP = gen
	}
}

func NewAuthenticator(cfg config.AuthConfig, store Store, opts ...Option) *Authenticator {
	accounts := make(map[string]config.AdminAccount, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		accounts[account.Username] = account
	}

	a := &Authenticator{
		store:           store,
		accounts:        accounts,
		otpValidity:     time.Duration(cfg.OTPValiditySec) * time.Second,
		maxAttempts:     int64(cfg.MaxLoginAttempts),
		lockoutDuration: time.Duration(cfg.LockoutDurationSec) * time.Second,
		sessionValidity: time.Duration(cfg.SessionValidityMin) * time.Minute,
		revealOTP:       cfg.RevealOTPInResponse,
		generateOTP:     randomOTP,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Login verifies the password and, on success, issues a one-time code
// pending verification. A run of failed attempts locks the account.
func (a *Authenticator) Login(ctx context.Context, username, password string) (LoginResult, error) {
	locked, remaining, err := a.isLockedOut(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	if locked {
		minutes := int(remaining / time.Minute)
		seconds := int(remaining%time.Minute) / int(time.Second)
		return LoginResult{Message: fmt.Sprintf("Account locked. Try again in %dm %ds.", minutes, seconds)}, nil
	}

	account, exists := a.accounts[username]
	if !exists {
		if _, _, err := a.recordFailedAttempt(ctx, username); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Message: "Invalid username or password."}, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		attempts, nowLocked, err := a.recordFailedAttempt(ctx, username)
		if err != nil {
			return LoginResult{}, err
		}
		if nowLocked {
			logger.Warn("Admin account locked after repeated failures", zap.String("username", username))
			return LoginResult{Message: fmt.Sprintf("Too many failed attempts. Account locked for %d minutes.", int(a.lockoutDuration/time.Minute))}, nil
		}
		return LoginResult{Message: fmt.Sprintf("Invalid username or password. %d attempts remaining.", a.maxAttempts-attempts)}, nil
	}

	if err := a.store.Delete(ctx, attemptsKeyPrefix+username); err != nil {
		return LoginResult{}, err
	}

	otp := a.generateOTP()
	if err := a.store.Set(ctx, otpKeyPrefix+username, otp, a.otpValidity); err != nil {
		return LoginResult{}, err
	}

	logger.Info("Admin password verified, OTP issued", zap.String("username", username))

	result := LoginResult{OK: true, Message: "Password verified. Please enter OTP."}
	if a.revealOTP {
		result.OTP = otp
	}
	return result, nil
}

// VerifyOTP completes the login, exchanging a valid code for a session
// token. The code is single-use; a wrong guess leaves it in place until
// it expires.
func (a *Authenticator) VerifyOTP(ctx context.Context, username, otp string) (VerifyResult, error) {
	stored, found, err := a.store.Get(ctx, otpKeyPrefix+username)
	if err != nil {
		return VerifyResult{}, err
	}
	if !found {
		return VerifyResult{Message: "OTP has expired or was not generated. Please login again."}, nil
	}
	if stored != otp {
		return VerifyResult{Message: "Invalid OTP. Please try again."}, nil
	}

	if err := a.store.Delete(ctx, otpKeyPrefix+username); err != nil {
		return VerifyResult{}, err
	}

	account := a.accounts[username]
	session := Session{
		Username: username,
		Role:     account.Role,
		FullName: account.FullName,
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to marshal session: %w", err)
	}

	token := uuid.NewString()
	if err := a.store.Set(ctx, sessionKeyPrefix+token, string(payload), a.sessionValidity); err != nil {
		return VerifyResult{}, err
	}

	logger.Info("Admin authenticated", zap.String("username", username), zap.String("role", account.Role))

	return VerifyResult{
		OK:      true,
		Message: fmt.Sprintf("Welcome, %s!", account.FullName),
		Token:   token,
		Session: session,
	}, nil
}

// Validate resolves a session token; found is false for unknown or
// expired tokens.
func (a *Authenticator) Validate(ctx context.Context, token string) (Session, bool, error) {
	payload, found, err := a.store.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return Session{}, false, err
	}
	if !found {
		return Session{}, false, nil
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return Session{}, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return session, true, nil
}

func (a *Authenticator) Logout(ctx context.Context, token string) error {
	return a.store.Delete(ctx, sessionKeyPrefix+token)
}

func (a *Authenticator) isLockedOut(ctx context.Context, username string) (bool, time.Duration, error) {
	_, found, err := a.store.Get(ctx, lockoutKeyPrefix+username)
	if err != nil || !found {
		return false, 0, err
	}

	remaining, err := a.store.TTL(ctx, lockoutKeyPrefix+username)
	if err != nil {
		return false, 0, err
	}
	return true, remaining, nil
}

// recordFailedAttempt bumps the per-user counter and converts it into a
// lockout once the limit is reached.
func (a *Authenticator) recordFailedAttempt(ctx context.Context, username string) (int64, bool, error) {
	attempts, err := a.store.Incr(ctx, attemptsKeyPrefix+username, a.lockoutDuration)
	if err != nil {
		return 0, false, err
	}

	if attempts >= a.maxAttempts {
		if err := a.store.Set(ctx, lockoutKeyPrefix+username, "1", a.lockoutDuration); err != nil {
			return 0, false, err
		}
		if err := a.store.Delete(ctx, attemptsKeyPrefix+username); err != nil {
			return 0, false, err
		}
		return attempts, true, nil
	}
	return attempts, false, nil
}

func randomOTP() string {
	digits := make([]byte, otpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand never fails on supported platforms.
			n = big.NewInt(0)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}

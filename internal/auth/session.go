// Package auth implements the admin gate: bcrypt credential verification,
// HMAC-signed session tokens with a fixed lifetime, a static IP allow-list
// and double-submit CSRF tokens.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/youssefMoMo/youssef-portfolio/internal/config"

	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookieName = "admin_session"
	CSRFCookieName    = "csrf_token"
	CSRFHeaderName    = "X-CSRF-Token"
)

var (
	ErrBadToken     = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

type Manager struct {
	username     string
	passwordHash string
	secret       []byte
	allowedIPs   map[string]struct{}
	sessionTTL   time.Duration

	now func() time.Time
}

type Option func(*Manager)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg config.AdminConfig, opts ...Option) *Manager {
	allowed := make(map[string]struct{}, len(cfg.AllowedIPs))
	for _, ip := range cfg.AllowedIPs {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			allowed[ip] = struct{}{}
		}
	}

	m := &Manager{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		secret:       []byte(cfg.SessionSecret),
		allowedIPs:   allowed,
		sessionTTL:   cfg.SessionLifetime(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IPAllowed reports whether the client address is on the static allow-list.
// An empty or unset allow-list admits nobody.
func (m *Manager) IPAllowed(ip string) bool {
	if len(m.allowedIPs) == 0 {
		return false
	}
	_, ok := m.allowedIPs[strings.TrimSpace(ip)]
	return ok
}

// VerifyCredentials checks the configured username and bcrypt password hash.
// Unset credentials admit nobody.
func (m *Manager) VerifyCredentials(username, password string) bool {
	if m.username == "" || m.passwordHash == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) != 1 {
		// Still burn a bcrypt comparison so both failure paths cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(password)) == nil
}

// IssueSession returns a signed token of the form "nonce.expiry.signature"
// and its expiry time.
func (m *Manager) IssueSession() (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("session secret is not configured")
	}

	nonce, err := randomToken(16)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := m.now().UTC().Add(m.sessionTTL)
	payload := nonce + "." + strconv.FormatInt(expiresAt.Unix(), 10)
	token := payload + "." + m.sign(payload)
	return token, expiresAt, nil
}

// VerifySession checks the token signature and expiry.
func (m *Manager) VerifySession(token string) error {
	if len(m.secret) == 0 {
		return ErrBadToken
	}

	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return ErrBadToken
	}
	payload, sig := token[:idx], token[idx+1:]

	expected := m.sign(payload)
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return ErrBadToken
	}

	parts := strings.Split(payload, ".")
	if len(parts) != 2 {
		return ErrBadToken
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ErrBadToken
	}
	if m.now().UTC().After(time.Unix(expiry, 0)) {
		return ErrTokenExpired
	}
	return nil
}

// SessionTTL exposes the configured lifetime for cookie expiry.
func (m *Manager) SessionTTL() time.Duration {
	return m.sessionTTL
}

// NewCSRFToken returns a fresh random token for the double-submit cookie.
func NewCSRFToken() (string, error) {
	return randomToken(24)
}

// CSRFMatches compares the header-supplied token against the cookie value.
func CSRFMatches(headerToken, cookieToken string) bool {
	if headerToken == "" || cookieToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
}

func (m *Manager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func randomToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

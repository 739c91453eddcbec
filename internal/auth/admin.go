package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password. Out-of-range costs fall back to
// bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// AdminCredentials is the single configured administrator login.
type AdminCredentials struct {
	email string
	hash  []byte
}

// NewAdminCredentials builds credentials from an email and bcrypt hash. An
// empty hash disables admin login.
func NewAdminCredentials(email, hash string) *AdminCredentials {
	return &AdminCredentials{email: normalizeEmail(email), hash: []byte(hash)}
}

// Enabled reports whether a password hash is configured.
func (a *AdminCredentials) Enabled() bool {
	return len(a.hash) > 0
}

// Email returns the normalized admin email.
func (a *AdminCredentials) Email() string {
	return a.email
}

// Verify checks email and password. The password hash is compared even when
// the email does not match.
func (a *AdminCredentials) Verify(email, password string) bool {
	if !a.Enabled() {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(a.email)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return emailOK && passwordOK
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

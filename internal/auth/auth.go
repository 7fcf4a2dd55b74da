// Package auth gates requests on a time-based one-time password checked
// against a read or write secret chosen by HTTP method class. Verification
// is a pure function of (token, secret, current time); no state survives
// a request.
package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

// MethodClass partitions HTTP methods into the two secret domains.
type MethodClass int

// Method classes.
const (
	// Read covers safe methods (GET, HEAD).
	Read MethodClass = iota
	// Write covers everything else (POST, DELETE, ...).
	Write
)

// ClassOf maps an HTTP method to its class.
func ClassOf(method string) MethodClass {
	switch method {
	case "GET", "HEAD":
		return Read
	default:
		return Write
	}
}

// Secrets holds the two base32-encoded TOTP secrets.
type Secrets struct {
	Read  string
	Write string
}

// validateOpts fixes the code parameters: 30s steps, six digits, SHA1,
// one step of clock-skew tolerance on either side.
var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Gate authorizes requests. Two states only: disabled (always passes) and
// enabled (verifies the token).
type Gate struct {
	enabled bool
	secrets Secrets
	now     func() time.Time
}

// NewGate creates a Gate. With enabled false every request passes,
// token or not.
func NewGate(enabled bool, secrets Secrets) *Gate {
	return &Gate{enabled: enabled, secrets: secrets, now: time.Now}
}

// Enabled reports whether the gate verifies tokens.
func (g *Gate) Enabled() bool { return g.enabled }

// Authorize verifies the token against the secret for the method class.
// The two failure modes map to the same external rejection; they are
// distinguished for internal diagnostics only.
func (g *Gate) Authorize(token string, class MethodClass) error {
	if !g.enabled {
		return nil
	}
	if token == "" {
		return domain.ErrMissingToken
	}

	secret := g.secrets.Read
	if class == Write {
		secret = g.secrets.Write
	}

	ok, err := totp.ValidateCustom(token, secret, g.now().UTC(), validateOpts)
	if err != nil || !ok {
		return domain.ErrInvalidToken
	}
	return nil
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/kailas-cloud/searchgate/internal/domain"
)

const (
	readSecret  = "JBSWY3DPEHPK3PXP"
	writeSecret = "GEZDGNBVGY3TQOJQ"
)

func fixedGate(t *testing.T, at time.Time) *Gate {
	t.Helper()
	g := NewGate(true, Secrets{Read: readSecret, Write: writeSecret})
	g.now = func() time.Time { return at }
	return g
}

func code(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	c, err := totp.GenerateCode(secret, at)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	return c
}

func TestAuthorize_Disabled_PassesWithoutToken(t *testing.T) {
	g := NewGate(false, Secrets{})
	if err := g.Authorize("", Read); err != nil {
		t.Errorf("disabled gate: got %v, want nil", err)
	}
	if g.Enabled() {
		t.Error("Enabled: got true, want false")
	}
}

func TestAuthorize_MissingToken(t *testing.T) {
	g := fixedGate(t, time.Now())
	if err := g.Authorize("", Read); !errors.Is(err, domain.ErrMissingToken) {
		t.Errorf("got %v, want ErrMissingToken", err)
	}
}

func TestAuthorize_CurrentCode(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 15, 0, time.UTC)
	g := fixedGate(t, at)

	if err := g.Authorize(code(t, readSecret, at), Read); err != nil {
		t.Errorf("current read code: got %v, want nil", err)
	}
	if err := g.Authorize(code(t, writeSecret, at), Write); err != nil {
		t.Errorf("current write code: got %v, want nil", err)
	}
}

func TestAuthorize_AdjacentStepWithinSkew(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 15, 0, time.UTC)
	g := fixedGate(t, at)

	if err := g.Authorize(code(t, readSecret, at.Add(-30*time.Second)), Read); err != nil {
		t.Errorf("previous step: got %v, want nil", err)
	}
	if err := g.Authorize(code(t, readSecret, at.Add(30*time.Second)), Read); err != nil {
		t.Errorf("next step: got %v, want nil", err)
	}
}

func TestAuthorize_ExpiredCode(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 15, 0, time.UTC)
	g := fixedGate(t, at)

	if err := g.Authorize(code(t, readSecret, at.Add(-5*time.Minute)), Read); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expired code: got %v, want ErrInvalidToken", err)
	}
}

func TestAuthorize_SecretsAreClassBound(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 15, 0, time.UTC)
	g := fixedGate(t, at)

	// A read code must not open the write class and vice versa.
	if err := g.Authorize(code(t, readSecret, at), Write); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("read code on write class: got %v, want ErrInvalidToken", err)
	}
	if err := g.Authorize(code(t, writeSecret, at), Read); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("write code on read class: got %v, want ErrInvalidToken", err)
	}
}

func TestAuthorize_GarbageToken(t *testing.T) {
	g := fixedGate(t, time.Now())
	if err := g.Authorize("not-a-code", Read); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		method string
		want   MethodClass
	}{
		{"GET", Read},
		{"HEAD", Read},
		{"POST", Write},
		{"DELETE", Write},
		{"PUT", Write},
		{"PATCH", Write},
	}

	for _, tc := range tests {
		if got := ClassOf(tc.method); got != tc.want {
			t.Errorf("ClassOf(%s): got %v, want %v", tc.method, got, tc.want)
		}
	}
}

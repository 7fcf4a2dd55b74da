package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockPinger{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status: got %s, want %s", report.Status, Healthy)
	}
	if report.Checks["engine"] != CheckOK {
		t.Errorf("engine check: got %s, want %s", report.Checks["engine"], CheckOK)
	}
}

func TestCheck_EngineDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status: got %s, want %s", report.Status, Degraded)
	}
	if report.Checks["engine"] != CheckError {
		t.Errorf("engine check: got %s, want %s", report.Checks["engine"], CheckError)
	}
}

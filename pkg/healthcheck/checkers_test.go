package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// 測試 PingChecker
func TestPingChecker(t *testing.T) {
	checker := &PingChecker{}

	if checker.Name() != "ping" {
		t.Errorf("Expected name 'ping', got '%s'", checker.Name())
	}

	if err := checker.Check(httptest.NewRequest("GET", "/ping", nil)); err != nil {
		t.Errorf("PingChecker.Check() should not return error, got: %v", err)
	}
}

// 測試 ReadinessStateChecker
func TestReadinessStateChecker(t *testing.T) {
	manager := New(nil)
	checker := &ReadinessStateChecker{manager: manager}

	if err := checker.Check(httptest.NewRequest("GET", "/ready", nil)); err == nil {
		t.Error("ReadinessStateChecker.Check() should return error when not ready")
	}

	manager.SetReady(true)
	if err := checker.Check(httptest.NewRequest("GET", "/ready", nil)); err != nil {
		t.Errorf("ReadinessStateChecker.Check() should pass when ready, got: %v", err)
	}
}

func TestDependencyChecker(t *testing.T) {
	req := httptest.NewRequest("GET", "/readiness", nil)

	t.Run("未配置", func(t *testing.T) {
		checker := &DependencyChecker{}
		if checker.Name() != "dependency-checker" {
			t.Errorf("unexpected default name %s", checker.Name())
		}
		if err := checker.Check(req); err == nil {
			t.Error("expected error without PingFunc")
		}
	})

	t.Run("成功", func(t *testing.T) {
		var deadline time.Time
		checker := &DependencyChecker{
			Name_: "history-redis",
			PingFunc: func(ctx context.Context) error {
				deadline, _ = ctx.Deadline()
				return nil
			},
		}
		if err := checker.Check(req); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if deadline.IsZero() {
			t.Error("PingFunc should receive a deadline")
		}
		if checker.Name() != "history-redis" {
			t.Errorf("unexpected name %s", checker.Name())
		}
	})

	t.Run("超時", func(t *testing.T) {
		checker := &DependencyChecker{
			Timeout: 10 * time.Millisecond,
			PingFunc: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}
		if err := checker.Check(req); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestCustomChecker(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)

	if err := (&CustomChecker{}).Check(req); err == nil {
		t.Error("expected error without CheckFunc")
	}

	checker := &CustomChecker{
		Name_:     "frame-loop",
		CheckFunc: func(r *http.Request) error { return nil },
	}
	if err := checker.Check(req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

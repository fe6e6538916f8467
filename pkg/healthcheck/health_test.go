package healthcheck

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func setupTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func serve(t *testing.T, h *Manager, name string) (*httptest.ResponseRecorder, Report) {
	t.Helper()

	handler, exists := h.GetHandler(name)
	if !exists {
		t.Fatalf("handler %s should exist", name)
	}

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/"+name, nil))

	var report Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid report: %v", err)
	}
	return w, report
}

func TestHealth_SetReady(t *testing.T) {
	h := New(setupTestLogger())

	if h.IsReady() {
		t.Error("Health should not be ready by default")
	}

	h.SetReady(true)
	if !h.IsReady() {
		t.Error("Health should be ready after SetReady(true)")
	}

	h.SetReady(false)
	if h.IsReady() {
		t.Error("Health should not be ready after SetReady(false)")
	}
}

func TestHealth_LivenessIgnoresReadiness(t *testing.T) {
	h := New(setupTestLogger())

	w, report := serve(t, h, "liveness")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status code %d but got %d", http.StatusOK, w.Code)
	}
	if report.Status != "ok" || len(report.Checks) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestHealth_Readiness(t *testing.T) {
	h := New(setupTestLogger())

	w, report := serve(t, h, "readiness")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status code %d but got %d", http.StatusServiceUnavailable, w.Code)
	}
	if report.Status != "unavailable" {
		t.Errorf("Expected unavailable status, got %s", report.Status)
	}

	h.SetReady(true)
	w, _ = serve(t, h, "readiness")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status code %d but got %d", http.StatusOK, w.Code)
	}
}

func TestHealth_FailingCheckerReported(t *testing.T) {
	h := New(setupTestLogger())
	h.SetReady(true)
	h.AddReadinessCheck(&CustomChecker{
		Name_: "history",
		CheckFunc: func(r *http.Request) error {
			return errors.New("連線中斷")
		},
	})

	w, report := serve(t, h, "health")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status code %d but got %d", http.StatusServiceUnavailable, w.Code)
	}
	if len(report.Checks) != 3 {
		t.Fatalf("Expected 3 checks, got %d", len(report.Checks))
	}

	last := report.Checks[2]
	if last.Name != "history" || last.Healthy || last.Error != "連線中斷" {
		t.Errorf("unexpected check result: %+v", last)
	}
}

func TestHealth_UnknownHandler(t *testing.T) {
	h := New(nil)
	if _, exists := h.GetHandler("startup"); exists {
		t.Error("startup handler should not exist")
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"status":"Approved"}`, ""},
		{"empty", ``, "empty request body"},
		{"malformed", `{"status":`, "invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &core.RequestEvent{}
			e.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			e.Response = httptest.NewRecorder()

			var dst statusRequest
			err := decodeJSON(e, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dst.Status != "Approved" {
					t.Errorf("Status = %q", dst.Status)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerError_LogsAndHidesCause(t *testing.T) {
	buf := captureLogs(t)
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	e.Response = rec

	if err := serverError(e, "quotes: list failed", errBoom, "Failed to load quotes."); err != nil {
		t.Fatalf("serverError returned %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := messageOf(t, rec); got != "Failed to load quotes." {
		t.Errorf("message = %q", got)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("response should not expose the underlying error")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("log output %q should contain the error", buf.String())
	}
}

func TestHandleRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	e.Response = rec

	if err := HandleRoot("Terracotta Construction")(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "Terracotta Construction Admin API is running." {
		t.Errorf("body = %q", got)
	}
}

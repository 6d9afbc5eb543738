package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeaders_SetsBaseline(t *testing.T) {
	handler := SecurityHeaders(SecurityHeadersConfig{Env: "development"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin/realms/master/brute-force-users", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	checks := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Cache-Control":          "no-store",
	}
	for header, want := range checks {
		if got := recorder.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}

	if recorder.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should not be set in development")
	}
}

func TestSecurityHeaders_HSTSInProductionOverTLS(t *testing.T) {
	handler := SecurityHeaders(SecurityHeadersConfig{Env: "production"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS header in production over TLS")
	}
}

package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/arcanehq/realmgate/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP_DirectConnectionIgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.9:4312"
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	req.Header.Set("X-Real-IP", "203.0.113.51")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "198.51.100.9", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_TrustedProxyUsesXForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:4312"
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.5")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.50", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_TrustedProxyFallsBackToXRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:4312"
	req.Header.Set("X-Real-IP", "203.0.113.51")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.51", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_NilConfigDefaultsSecurely(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.9:4312"
	req.Header.Set("X-Forwarded-For", "203.0.113.50")

	assert.Equal(t, "198.51.100.9", pkghttp.ExtractClientIP(req, nil))
}

func TestExtractClientIP_InvalidForwardedEntriesSkipped(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:4312"
	req.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.50")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.50", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_InvalidCIDRIgnored(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:4312"
	req.Header.Set("X-Forwarded-For", "203.0.113.50")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"bogus", "10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.50", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_IPv6TrustedProxy(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "[fd00::1]:4312"
	req.Header.Set("X-Forwarded-For", "2001:db8::9")

	config := &pkghttp.IPConfig{TrustedProxies: []string{"fd00::/8"}}

	assert.Equal(t, "2001:db8::9", pkghttp.ExtractClientIP(req, config))
}

func TestExtractClientIP_RemoteAddrWithoutPort(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.9"

	assert.Equal(t, "198.51.100.9", pkghttp.ExtractClientIP(req, nil))
}

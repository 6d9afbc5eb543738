package http

import (
	"net"
	"net/http"
	"strings"
)

// IPConfig holds configuration for client IP extraction
type IPConfig struct {
	TrustedProxies []string // CIDR ranges of trusted proxies
}

// ExtractClientIP returns the real client IP for a request. Forwarding
// headers are honored only when the direct peer is a trusted proxy, so an
// untrusted client cannot spoof its address through header manipulation.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remoteIP := remoteAddr(r)

	if config == nil || !isTrustedProxy(remoteIP, config.TrustedProxies) {
		return remoteIP
	}

	// X-Forwarded-For can carry a chain; the first valid entry is the
	// originating client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, ip := range strings.Split(xff, ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	return remoteIP
}

// remoteAddr strips the port from RemoteAddr when present
func remoteAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// isTrustedProxy checks if an IP falls within any trusted proxy CIDR range
func isTrustedProxy(ip string, trustedProxies []string) bool {
	peer := net.ParseIP(ip)
	if peer == nil {
		return false
	}

	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if ipNet.Contains(peer) {
			return true
		}
	}

	return false
}

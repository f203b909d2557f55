package netutil

import (
	"net/netip"
	"strings"
	"unicode/utf8"
)

// MaxDeviceNameLength bounds the device name we derive from a client
// user-agent before persisting it on a session.
const MaxDeviceNameLength = 512

// NormalizeIP accepts a bare IP or a host:port form (including bracketed
// IPv6) and returns the canonical IP portion without zone identifiers. The
// second return value reports whether parsing succeeded.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		addr := addrPort.Addr().WithZone("")
		if addr.IsValid() {
			return addr.String(), true
		}
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		addr = addr.WithZone("")
		if addr.IsValid() {
			return addr.String(), true
		}
	}
	// Bracketed IPv6 with a non-numeric port, e.g. "[::1]:port".
	if strings.HasPrefix(raw, "[") && strings.Contains(raw, "]") {
		host := raw[1:strings.LastIndex(raw, "]")]
		if addr, err := netip.ParseAddr(host); err == nil {
			addr = addr.WithZone("")
			if addr.IsValid() {
				return addr.String(), true
			}
		}
	}
	// Last resort: strip a trailing colon section and retry.
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		if addr, err := netip.ParseAddr(raw[:idx]); err == nil {
			addr = addr.WithZone("")
			if addr.IsValid() {
				return addr.String(), true
			}
		}
	}
	return raw, false
}

// TruncateUserAgent trims overly long user agents to MaxDeviceNameLength runes
// without splitting multi-byte characters.
func TruncateUserAgent(ua string) string {
	if ua == "" || utf8.RuneCountInString(ua) <= MaxDeviceNameLength {
		return ua
	}
	var builder strings.Builder
	builder.Grow(len(ua))
	count := 0
	for _, r := range ua {
		builder.WriteRune(r)
		count++
		if count >= MaxDeviceNameLength {
			break
		}
	}
	return builder.String()
}

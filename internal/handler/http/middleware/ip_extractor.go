package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	envconfig "newsdesk/pkg/config"
)

// TrustedProxies decides whose X-Forwarded-For and X-Real-IP headers are
// believed. The zero value trusts nobody, so the client IP is always the
// TCP peer.
type TrustedProxies struct {
	cidrs []netip.Prefix
}

// ParseTrustedProxies accepts IPs and CIDR ranges. A bare IP becomes a /32
// or /128.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	var tp TrustedProxies
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(e)
		if err != nil {
			addr, addrErr := netip.ParseAddr(e)
			if addrErr != nil {
				return TrustedProxies{}, fmt.Errorf("trusted proxy %q: not an IP or CIDR", e)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		tp.cidrs = append(tp.cidrs, prefix.Masked())
	}
	return tp, nil
}

// LoadTrustedProxiesFromEnv reads RATE_LIMIT_TRUSTED_PROXIES, a comma
// separated list such as "10.0.0.0/8,172.16.0.1". Unset means no proxy is
// trusted. An invalid entry is an error so the API refuses to start.
func LoadTrustedProxiesFromEnv() (TrustedProxies, error) {
	return ParseTrustedProxies(envconfig.GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", nil))
}

// Trusts reports whether remoteAddr ("ip:port" or "ip") is a trusted proxy.
func (tp TrustedProxies) Trusts(remoteAddr string) bool {
	if len(tp.cidrs) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(hostOf(remoteAddr))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range tp.cidrs {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address rate limits are keyed on. Forwarding
// headers count only when the TCP peer is a trusted proxy; anyone else
// gets keyed on RemoteAddr whatever headers they send.
func (tp TrustedProxies) ClientIP(r *http.Request) string {
	peer := hostOf(r.RemoteAddr)
	if !tp.Trusts(r.RemoteAddr) {
		if r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != "" {
			slog.Debug("ignoring forwarding headers from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr))
		}
		return peer
	}
	// プロキシ経由の場合は先頭のIPがクライアント
	if ip := parseFirstIP(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return peer
}

// hostOf strips the port from "ip:port"; a bare address is returned as is.
func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// parseFirstIP parses the first entry of a comma separated address list.
func parseFirstIP(s string) string {
	first, _, _ := strings.Cut(s, ",")
	if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
		return ip.String()
	}
	return ""
}

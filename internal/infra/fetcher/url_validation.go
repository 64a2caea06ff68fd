// Package fetcher holds the HTTP plumbing shared by the feed reader and the
// page scraper: the explicit fetch configuration, a hardened http.Client and
// a size-limited GET.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/usecase/draft"
)

// ValidateURL rejects non-http(s) URLs and, when denyPrivateIPs is set,
// hosts that resolve to private addresses (SSRF guard).
func ValidateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", draft.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", draft.ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", draft.ErrInvalidURL)
	}
	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", draft.ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", draft.ErrPrivateIP, hostname, ip.String())
		}
	}
	return nil
}

// Package webhook implements subscription management and signed delivery
// for the design's webhook engine. HMAC signing is grounded on the
// ferg-cod3s-conexus repo's verifyWebhookSignature (internal/mcp/webhooks/
// handlers.go: crypto/hmac+crypto/sha256, sha256=<hex> header format) run
// in the signing direction instead of verification; the delivery pool is
// grounded on the teacher repo's golang.org/x/sync/errgroup usage.
package webhook

import (
	"net"
	"net/url"
	"strings"

	apperr "github.com/macward/vibemcp/internal/errors"
)

var blockedHostnames = map[string]bool{
	"localhost":                true,
	"127.0.0.1":                true,
	"::1":                      true,
	"0.0.0.0":                  true,
	"metadata.google.internal": true,
	"metadata.goog":            true,
}

var blockedCIDRs = mustParseCIDRs(
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

// resolveFunc is overridable in tests so SSRF checks don't depend on live DNS.
var resolveFunc = net.LookupIP

// validateURL enforces the scheme/hostname/resolved-IP rules from the
// design's webhook registration section. DNS-resolution failures are
// tolerated — a hostname the registrar cannot currently resolve does not
// block registration.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apperr.Invalid("malformed webhook URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperr.Invalid("webhook URL must use http or https")
	}

	host := u.Hostname()
	if host == "" {
		return apperr.Invalid("webhook URL must have a hostname")
	}
	if blockedHostnames[strings.ToLower(host)] {
		return apperr.Invalid("webhook URL resolves to a blocked host")
	}

	if ip := net.ParseIP(host); ip != nil {
		if ipBlocked(ip) {
			return apperr.Invalid("webhook URL resolves to a blocked address range")
		}
		return nil
	}

	ips, err := resolveFunc(host)
	if err != nil {
		return nil // resolution failure tolerated; registration proceeds
	}
	for _, ip := range ips {
		if ipBlocked(ip) {
			return apperr.Invalid("webhook URL resolves to a blocked address range")
		}
	}
	return nil
}

func ipBlocked(ip net.IP) bool {
	for _, n := range blockedCIDRs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

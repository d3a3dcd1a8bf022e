// Package domain computes the registrable domain used as the lookup key for
// resolution and extraction rules.
package domain

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Registrable returns the registrable domain (effective TLD plus one label,
// e.g. "example.co.uk") of rawURL's host. IP addresses and bare hostnames
// carry no public suffix and are returned as-is.
func Registrable(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("URL has no host: %s", rawURL)
	}

	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host, nil
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("failed to determine registrable domain of %s: %w", host, err)
	}

	return etld1, nil
}

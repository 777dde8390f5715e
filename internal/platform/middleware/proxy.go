// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/ascinsa/pms/internal/platform/constants"
)

// # Trusted Proxies

// ParseTrustedProxies reads CIDR ranges or bare addresses. Blank entries are
// skipped.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

/*
TrustProxies rewrites RemoteAddr to the forwarded client address, but only when
the direct peer lies inside one of trusted. Every other request keeps its
socket address, so X-Real-IP and X-Forwarded-For cannot be spoofed by clients
that reach the server directly.

It must run before anything that calls [RealIP].
*/
func TrustProxies(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(trusted) == 0 {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if client, ok := forwardedClient(request, trusted); ok {
				request.RemoteAddr = net.JoinHostPort(client.String(), "0")
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// forwardedClient walks X-Forwarded-For from the right, skipping trusted hops.
// X-Real-IP is honoured only when no forwarding chain is present.
func forwardedClient(request *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	peer, ok := parseHost(request.RemoteAddr)
	if !ok || !contains(trusted, peer) {
		return netip.Addr{}, false
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		var leftmost netip.Addr
		for index := len(hops) - 1; index >= 0; index-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[index]))
			if err != nil {
				return netip.Addr{}, false
			}
			hop = hop.Unmap()
			if !contains(trusted, hop) {
				return hop, true
			}
			leftmost = hop
		}
		return leftmost, leftmost.IsValid()
	}

	if realIP := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); realIP != "" {
		addr, err := netip.ParseAddr(realIP)
		if err != nil {
			return netip.Addr{}, false
		}
		return addr.Unmap(), true
	}

	return netip.Addr{}, false
}

func parseHost(remote string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func contains(prefixes []netip.Prefix, addr netip.Addr) bool {
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

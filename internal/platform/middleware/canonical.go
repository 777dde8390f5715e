// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"path"
	"strings"
)

// # Canonical Paths

// CanonicalizePath collapses repeated slashes and resolves "." and ".."
// segments. A trailing slash is kept.
func CanonicalizePath(raw string) string {
	if raw == "" {
		return "/"
	}
	if raw[0] != '/' {
		raw = "/" + raw
	}

	cleaned := path.Clean(raw)
	if strings.HasSuffix(raw, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

/*
CanonicalPath redirects any request whose path is not canonical to its
canonical form, query included.

Every later decision (session gate, area restriction, API detection) then sees
the same path the router matches on, so "//docs" or "/api/../docs" never reach
a handler under a name the guards did not check.
*/
func CanonicalPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		current := request.URL.Path
		canonical := CanonicalizePath(current)
		if canonical == current {
			next.ServeHTTP(writer, request)
			return
		}

		target := canonical
		if request.URL.RawQuery != "" {
			target += "?" + request.URL.RawQuery
		}

		status := http.StatusMovedPermanently
		if request.Method != http.MethodGet && request.Method != http.MethodHead {
			status = http.StatusPermanentRedirect
		}
		http.Redirect(writer, request, target, status)
	})
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"

	"github.com/ascinsa/pms/internal/platform/constants"
)

// TokenCookie returns the http-only, same-site-strict cookie carrying the bare
// identity token. It has no max-age and lives as long as the browser session.
func TokenCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearedTokenCookie expires the token cookie in the browser.
func ClearedTokenCookie(secure bool) *http.Cookie {
	cookie := TokenCookie("", secure)
	cookie.MaxAge = -1
	return cookie
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # Request Identity

// Identity is the normalized, request-scoped representation of "who is making
// this request". It is rebuilt from a verified token on every request and is
// never cached beyond it.
type Identity struct {
	UserCode        string `json:"cod_ascinsa"`
	GivenName       string `json:"pnombre"`
	PaternalSurname string `json:"apaterno"`
	MaternalSurname string `json:"amaterno,omitempty"`
	Area            string `json:"area"`
	Position        string `json:"puesto"`
	FullName        string `json:"fullName"`

	// Extra carries every other decoded payload field untouched (iat, exp, ...).
	Extra map[string]any `json:"extra,omitempty"`
}

// ActorLabel returns the label recorded in the activity log for this identity.
func (identity *Identity) ActorLabel() string {
	if identity == nil {
		return ""
	}
	if identity.FullName != "" {
		return identity.FullName
	}
	return identity.UserCode
}

// BuildFullName joins the non-empty name parts with a single space.
// An empty result falls back to the user code.
func BuildFullName(userCode string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}

	if fullName := strings.TrimSpace(strings.Join(kept, " ")); fullName != "" {
		return fullName
	}
	return userCode
}

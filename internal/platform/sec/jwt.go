// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, identity tokens and the
// static role table.
//
// # Architecture
//
// This package isolates security-sensitive code (token signing, role
// membership) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces such as
// [auth.TokenIssuer] and [middleware.TokenVerifier].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed tokens and signature failures.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrTokenExpired is returned once the validity window has elapsed.
	ErrTokenExpired = errors.New("sec: token expired")
)

// # Token Payload

// TokenPayload is the minimal profile subset embedded in an identity token.
// The password is never part of it.
type TokenPayload struct {
	UserCode        string `json:"cod_ascinsa"`
	GivenName       string `json:"pnombre"`
	PaternalSurname string `json:"apaterno"`
	MaternalSurname string `json:"amaterno"`
	Area            string `json:"area"`
	Position        string `json:"puesto"`
}

// AuthClaims represents the payload embedded inside a signed identity token.
type AuthClaims struct {
	jwt.RegisteredClaims
	TokenPayload
}

// # Token Service

// TokenService handles issuance and verification of HS256 identity tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces the wall clock, mainly for tests that cross the expiry window.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// WithTTL overrides the validity window.
func WithTTL(ttl time.Duration) TokenOption {
	return func(service *TokenService) {
		service.ttl = ttl
	}
}

// NewTokenService creates a new TokenService signing with the given secret.
func NewTokenService(secret, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token secret must not be empty")
	}

	service := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Issue signs a new token for the payload. It returns the token and its expiry.
func (service *TokenService) Issue(payload TokenPayload) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.ttl)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.UserCode,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenPayload: payload,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// VerifyToken checks the signature and validity window of a token string and
// returns the [Identity] it asserts.
//
// # Expiry
//
// The library already rejects expired tokens; the explicit comparison below
// guards the case where a parser option or clock source lets one through.
func (service *TokenService) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, ErrInvalidToken
	}
	if !service.now().Before(expiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return identityFromClaims(claims), nil
}

// # Claim Decoding

// knownClaims lists payload keys that map onto [Identity] fields.
var knownClaims = map[string]struct{}{
	"cod_ascinsa": {}, "pnombre": {}, "PNOMBRE": {}, "apaterno": {}, "APATERNO": {},
	"amaterno": {}, "AMATERNO": {}, "area": {}, "AREA": {}, "puesto": {},
}

// identityFromClaims merges decoded payload fields into an [Identity].
func identityFromClaims(claims jwt.MapClaims) *Identity {
	identity := &Identity{
		UserCode:        stringClaim(claims, "cod_ascinsa"),
		GivenName:       stringClaim(claims, "pnombre", "PNOMBRE"),
		PaternalSurname: stringClaim(claims, "apaterno", "APATERNO"),
		MaternalSurname: stringClaim(claims, "amaterno", "AMATERNO"),
		Area:            stringClaim(claims, "area", "AREA"),
		Position:        stringClaim(claims, "puesto"),
	}
	identity.FullName = BuildFullName(identity.UserCode, identity.GivenName, identity.PaternalSurname, identity.MaternalSurname)

	for name, value := range claims {
		if _, known := knownClaims[name]; known {
			continue
		}
		if identity.Extra == nil {
			identity.Extra = make(map[string]any)
		}
		identity.Extra[name] = value
	}

	return identity
}

// stringClaim returns the first non-empty string value among the given keys.
func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

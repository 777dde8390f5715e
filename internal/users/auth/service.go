// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the login and logout flow of the panel.

Credentials are never stored locally: the HR directory verifies them, then an
8-hour identity token is issued and kept both in the session and in the
`token` cookie.

Architecture:

  - Service: Verify -> Issue -> session user.
  - Handler: form rendering, session and cookie reconciliation.
*/
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/metrics"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
)

// User-facing login messages.
const (
	MessageInvalidCredentials = "Credenciales inválidas"
	MessageMissingCredentials = "Ingresa tu usuario y contraseña"
)

// # Contracts

// CredentialVerifier checks a code/password pair against the directory.
type CredentialVerifier interface {
	Verify(context context.Context, userCode, password string) (*directory.Person, error)
}

// TokenIssuer signs identity tokens. Implemented by sec.TokenService.
type TokenIssuer interface {
	Issue(payload sec.TokenPayload) (string, time.Time, error)
}

// Service implements the login use case.
type Service struct {
	verifier CredentialVerifier
	issuer   TokenIssuer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(verifier CredentialVerifier, issuer TokenIssuer, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{verifier: verifier, issuer: issuer, metrics: metrics, logger: logger}
}

/*
Login verifies the credentials and returns the session user carrying a fresh token.

Errors:
  - 400 when either field is empty.
  - 401 "Credenciales inválidas" for an unknown code or a wrong password alike.
  - 502 "API error: <message>" when the directory answers with an error payload.
  - 502 "Error del servidor, inténtalo más tarde." when it cannot be reached.
*/
func (service *Service) Login(context context.Context, userCode, password string) (*session.User, error) {
	if userCode == "" || password == "" {
		service.metrics.LoginOutcome(metrics.LoginRejected)
		return nil, apperr.ValidationError(MessageMissingCredentials)
	}

	person, err := service.verifier.Verify(context, userCode, password)
	if err != nil {
		return nil, service.loginFailure(context, userCode, err)
	}

	token, expiresAt, err := service.issuer.Issue(person.TokenPayload())
	if err != nil {
		service.metrics.LoginOutcome(metrics.LoginUnavailable)
		return nil, apperr.Internal(err)
	}

	service.metrics.LoginOutcome(metrics.LoginSucceeded)
	service.logger.InfoContext(context, "login_succeeded",
		slog.String("user_code", person.UserCode),
		slog.Time("expires_at", expiresAt),
	)

	return &session.User{
		UserCode:        person.UserCode,
		GivenName:       person.GivenName,
		PaternalSurname: person.PaternalSurname,
		MaternalSurname: person.MaternalSurname,
		Area:            person.Area,
		Position:        person.Position,
		Profile:         person.Extra,
		Token:           token,
		FullName:        person.DisplayName(),
	}, nil
}

func (service *Service) loginFailure(context context.Context, userCode string, err error) error {
	if errors.Is(err, directory.ErrInvalidCredentials) {
		service.metrics.LoginOutcome(metrics.LoginRejected)
		service.logger.WarnContext(context, "login_rejected", slog.String("user_code", userCode))
		return apperr.Unauthorized(MessageInvalidCredentials)
	}

	service.metrics.LoginOutcome(metrics.LoginUnavailable)
	service.logger.ErrorContext(context, "login_directory_failed",
		slog.String("user_code", userCode),
		slog.String("error", err.Error()),
	)

	var apiError *directory.APIError
	if errors.As(err, &apiError) {
		return &apperr.AppError{
			Code:       "UPSTREAM_ERROR",
			Message:    apiError.Error(),
			HTTPStatus: http.StatusBadGateway,
			Cause:      err,
		}
	}
	return apperr.Upstream(err)
}

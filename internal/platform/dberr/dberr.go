// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ascinsa/pms/internal/platform/apperr"
)

// notFoundMessage is shown when a queried item does not exist.
const notFoundMessage = "Ítem no encontrado"

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// action names the failed operation ("hour.FindByID") and is kept in the cause
// for server-side logs only.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(notFoundMessage)
	}

	// 2. Check constraints on the CRUD tables surface as validation errors
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == "23514" {
		return apperr.ValidationError("Datos inválidos", apperr.FieldError{
			Field:   pgError.ColumnName,
			Message: pgError.ConstraintName,
		})
	}

	// 3. Everything else becomes an Internal Server Error
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

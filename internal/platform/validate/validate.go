// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used in the service layer only. Handlers pass raw form
// values through; services validate before touching storage.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ascinsa/pms/internal/platform/apperr"
)

// FormDateTime is the layout of datetime-local form inputs.
const FormDateTime = "2006-01-02T15:04"

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("JSON inválido")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "Este campo es obligatorio")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Máximo %d caracteres", max))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Debe estar entre %d y %d", min, max))
	}
	return v
}

// Int fails if a non-empty value is not a base-10 integer.
func (v *Validator) Int(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
		v.add(field, "Debe ser un número entero")
	}
	return v
}

// DateTime fails if the value does not match [FormDateTime].
func (v *Validator) DateTime(field, value string) *Validator {
	if _, err := time.Parse(FormDateTime, value); err != nil {
		v.add(field, "Fecha y hora inválidas")
	}
	return v
}

// NotBefore fails if end is earlier than start. Zero times are ignored so a
// failed parse is reported once by [Validator.DateTime].
func (v *Validator) NotBefore(field string, end, start time.Time) *Validator {
	if !end.IsZero() && !start.IsZero() && end.Before(start) {
		v.add(field, "La fecha de fin no puede ser anterior al inicio")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Debe ser uno de: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("progress_percentage", p > 100, "No puede superar 100")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method; call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Datos inválidos", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

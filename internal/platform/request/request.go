// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/validate"
)

// maxFormMemory bounds in-memory form parsing; the panel posts no uploads.
const maxFormMemory = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns validate.ErrInvalidJSON if decoding fails, otherwise nil.
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID parses a numeric URL parameter. A malformed value is reported as not found
so guessing ids and fetching missing rows look the same to the caller.
*/
func ID(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("Ítem no encontrado")
	}
	return id, nil
}

/*
Form parses a urlencoded or multipart body and returns the values.
Repeated keys are kept, see [JoinedValue].
*/
func Form(request *http.Request) (map[string][]string, error) {
	contentType := request.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := request.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, apperr.ValidationError("Formulario inválido")
		}
		return request.PostForm, nil
	}

	if err := request.ParseForm(); err != nil {
		return nil, apperr.ValidationError("Formulario inválido")
	}
	return request.PostForm, nil
}

// Value returns the first value for key, trimmed.
func Value(form map[string][]string, key string) string {
	if values := form[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// JoinedValue returns every value for key joined by commas, as multi-select
// inputs submit one value per option.
func JoinedValue(form map[string][]string, key string) string {
	values := make([]string, 0, len(form[key]))
	for _, value := range form[key] {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return strings.Join(values, ",")
}

/*
Identity extracts the verified identity from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns apperr.Unauthorized if the request is not authenticated.
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Autenticación requerida")
	}
	return identity, nil
}

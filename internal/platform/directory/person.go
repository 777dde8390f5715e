// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/ascinsa/pms/internal/platform/sec"
)

// upper folds positions the way Spanish speakers expect ("jefe de área" ->
// "JEFE DE ÁREA"); the roster mixes cases freely.
var upper = cases.Upper(language.Spanish)

// Person is one roster record.
//
// The reference password is kept unexported: it is read from the payload for
// verification and never serialized again.
type Person struct {
	UserCode        string `json:"cod_ascinsa"`
	GivenName       string `json:"pnombre"`
	PaternalSurname string `json:"apaterno"`
	MaternalSurname string `json:"amaterno"`
	Area            string `json:"area"`
	Position        string `json:"puesto"`

	// Extra carries the roster fields the panel does not interpret.
	Extra map[string]any `json:"extra,omitempty"`

	password string
}

// knownFields are consumed by UnmarshalJSON and excluded from Extra.
var knownFields = map[string]bool{
	"cod_ascinsa":         true,
	"pnombre":             true,
	"apaterno":            true,
	"amaterno":            true,
	"area":                true,
	"puesto":              true,
	"clave_sin_encriptar": true,
}

// UnmarshalJSON decodes a roster record. Values are accepted as strings or
// numbers, names are NFC-normalized. Numbers keep their literal digits, so a
// numeric password of 12345678 compares as "12345678".
func (person *Person) UnmarshalJSON(raw []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return err
	}

	person.UserCode = strings.TrimSpace(text(fields["cod_ascinsa"]))
	person.GivenName = normalize(text(fields["pnombre"]))
	person.PaternalSurname = normalize(text(fields["apaterno"]))
	person.MaternalSurname = normalize(text(fields["amaterno"]))
	person.Area = strings.TrimSpace(text(fields["area"]))
	person.Position = normalize(text(fields["puesto"]))
	person.password = text(fields["clave_sin_encriptar"])

	person.Extra = nil
	for key, value := range fields {
		if knownFields[key] {
			continue
		}
		if person.Extra == nil {
			person.Extra = make(map[string]any)
		}
		person.Extra[key] = value
	}

	return nil
}

// DisplayName is "pnombre apaterno", the label used on history lines and
// stored as the session full name.
func (person Person) DisplayName() string {
	return sec.BuildFullName(person.UserCode, person.GivenName, person.PaternalSurname)
}

// HasPosition reports whether the upper-cased position contains needle.
func (person Person) HasPosition(needle string) bool {
	return person.Position != "" && strings.Contains(upper.String(person.Position), needle)
}

// TokenPayload returns the subset of the record carried by the identity token.
func (person Person) TokenPayload() sec.TokenPayload {
	return sec.TokenPayload{
		UserCode:        person.UserCode,
		GivenName:       person.GivenName,
		PaternalSurname: person.PaternalSurname,
		MaternalSurname: person.MaternalSurname,
		Area:            person.Area,
		Position:        person.Position,
	}
}

func text(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func normalize(value string) string {
	return strings.TrimSpace(norm.NFC.String(value))
}

package helper

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText: trim + NFC + buang karakter kontrol (kecuali newline/tab).
func NormalizeText(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizeOptionalText: nil tetap nil; string kosong setelah normalisasi → pointer ke "".
func NormalizeOptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeText(*s)
	return &v
}

// NewValidator: validator dengan nama field diambil dari tag json.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

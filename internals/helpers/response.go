package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationError: ubah error validator.v10 jadi response 422 per field.
// Error non-validator → 400 biasa.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}
	return JsonValidationError(c, ValidationFieldErrors(ve))
}

// ValidationFieldErrors: key = nama field json (tag), value = daftar rule yang gagal.
func ValidationFieldErrors(ve validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if ns := fe.Namespace(); strings.Contains(ns, "[") {
			// entries[2].student_id → pertahankan index supaya client tahu baris mana
			if i := strings.Index(ns, "."); i >= 0 {
				field = ns[i+1:]
			}
		}
		rule := fe.Tag()
		if p := fe.Param(); p != "" {
			rule += "=" + p
		}
		out[field] = append(out[field], rule)
	}
	return out
}

package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LocActorID: key locals yang diisi middleware actor.
const LocActorID = "user_id"

// GetActorID mengambil id principal pemanggil dari c.Locals("user_id").
// Nilainya dipakai apa adanya sebagai marked_by / modified_by.
// 401 kalau tidak ada identitas.
func GetActorID(c *fiber.Ctx) (string, error) {
	var s string
	switch t := c.Locals(LocActorID).(type) {
	case string:
		s = t
	case uuid.UUID:
		if t != uuid.Nil {
			s = t.String()
		}
	case []byte:
		s = string(t)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Identitas pengguna tidak ditemukan")
	}
	return s, nil
}

package auth

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	helper "sanchalak_backend/internals/helpers"
)

const DefaultActorHeader = "X-Actor-ID"

type ActorOpts struct {
	// Header fallback kalau tidak ada bearer token (service-to-service).
	HeaderName string
	ClockSkew  time.Duration
}

// ActorContext mengisi c.Locals("user_id") dari bearer token (klaim user_id/id/sub)
// atau header X-Actor-ID. Tidak menolak request: handler tulis yang butuh actor
// akan mengembalikan 401 via helper.GetActorID.
func ActorContext(opts ActorOpts) fiber.Handler {
	header := strings.TrimSpace(opts.HeaderName)
	if header == "" {
		header = DefaultActorHeader
	}
	skew := opts.ClockSkew
	if skew <= 0 {
		skew = 30 * time.Second
	}

	return func(c *fiber.Ctx) error {
		actor := ""

		if tok, err := extractBearerToken(c); err == nil {
			claims, err := parseClaimsUnverified(tok)
			switch {
			case err != nil:
				log.Printf("[WARN] actor: token tidak bisa dibaca: %v", err)
			case validateTokenExpiry(claims, skew) != nil:
				log.Printf("[WARN] actor: token expired, diabaikan")
			default:
				if id, err := extractActorID(claims); err == nil {
					actor = id
				}
				if role, ok := claims["role"].(string); ok {
					c.Locals("userRole", role)
				}
			}
		}

		if actor == "" {
			actor = strings.TrimSpace(c.Get(header))
		}
		if actor != "" {
			c.Locals(helper.LocActorID, actor)
		}
		return c.Next()
	}
}

package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const actorLocalKey = "actor"

// IdentityMiddleware trusts the upstream authentication layer to put the
// acting identity in header. Requests without one are rejected.
func IdentityMiddleware(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := NormalizeIdentity(c.Get(header))
		if actor == "" {
			return ErrUnauthorized
		}

		c.Locals(actorLocalKey, actor)
		return c.Next()
	}
}

func Actor(c *fiber.Ctx) (string, error) {
	actor, ok := c.Locals(actorLocalKey).(string)
	if !ok || actor == "" {
		return "", ErrUnauthorized
	}
	return actor, nil
}

func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

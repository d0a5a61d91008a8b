package middlewares

import (
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"github.com/gofiber/fiber/v2"
)

func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": "Not Found",
	})
}

// Session resolves the caller's identity once per request and makes it
// available both to handlers and to outgoing backend calls.
func Session(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := store.Load(c)
		if err != nil {
			l := util.Logger()
			l.Warn().Err(err).Str("request_id", RequestIDOf(c)).Msg("could not read session")
			id = session.Identity{}
		}
		c.Locals(session.LocalsKey, id)
		c.SetUserContext(session.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// Protected lets only logged-in callers through.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.Current(c).Authenticated {
			return unauthenticated(c)
		}
		return c.Next()
	}
}

// RequireRoles admits logged-in callers whose role is one of roles. A record
// without a role counts as Viewer.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := session.Current(c)
		if !id.Authenticated {
			return unauthenticated(c)
		}
		if !id.Role().In(roles) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":   "error",
				"message":  "You do not have access to this page.",
				"redirect": "/access-denied",
			})
		}
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":   "error",
		"message":  "Please log in to continue.",
		"redirect": "/login",
	})
}

package controllers

import (
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/activity"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/catalog"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/exam"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/gateway"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Deps is everything the handlers reach for.
type Deps struct {
	Config   *util.Config
	Sessions *session.Store
	Gateway  *gateway.Client
	Catalog  *catalog.Service
	Exams    *exam.Registry
	Activity *activity.Service
	Log      zerolog.Logger
}

type Handlers struct {
	Deps
	validate *validator.Validate
}

func New(d Deps) *Handlers {
	return &Handlers{Deps: d, validate: validator.New()}
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "page": "ok"})
}

func (h *Handlers) Navigation(c *fiber.Ctx) error {
	id := session.Current(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"role":   id.Role(),
		"items":  models.NavigationFor(id.Role()),
	})
}

// fail writes err the way the browser expects it: a status that matches
// its kind and a message the user can read.
func (h *Handlers) fail(c *fiber.Ctx, err error, fallback string) error {
	status := apperrors.HTTPStatus(err)
	body := fiber.Map{
		"status":  "error",
		"message": apperrors.Message(err, fallback),
	}
	if apperrors.KindOf(err) == apperrors.KindAuth {
		body["redirect"] = "/login"
	}
	if status >= fiber.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.Path()).Int("status", status).Msg(fallback)
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// validationMessage turns the first validator failure into a sentence.
func validationMessage(err error, messages map[string]string, fallback string) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fallback
	}
	if msg, ok := messages[verrs[0].Field()]; ok {
		return msg
	}
	return fallback
}

package controllers

import (
	"strings"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/activity"
	"github.com/gofiber/fiber/v2"
)

func activityParams(c *fiber.Ctx) activity.Params {
	return activity.Params{
		From:     c.Query("from"),
		To:       c.Query("to"),
		Preset:   c.Query("preset"),
		Category: c.Query("category"),
		User:     c.Query("user"),
		Query:    c.Query("q"),
		Page:     c.Query("page"),
		PageSize: c.Query("pageSize"),
	}
}

func (h *Handlers) ListActivities(c *fiber.Ctx) error {
	f := h.Activity.ParseFilter(activityParams(c))
	view, err := h.Activity.View(c.UserContext(), f)
	if err != nil {
		return h.fail(c, err, "Failed to load activity log")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "activity": view})
}

func (h *Handlers) ExportActivities(c *fiber.Ctx) error {
	format, ok := activity.ParseFormat(c.Query("format"))
	if !ok {
		return badRequest(c, "Unsupported export format")
	}
	f := h.Activity.ParseFilter(activityParams(c))
	data, name, err := h.Activity.Export(c.UserContext(), f, format)
	if err != nil {
		return h.fail(c, err, "Export failed")
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Status(fiber.StatusOK).Send(data)
}

// LogActivity records an entry for the caller. Recording is best effort, so
// the request is accepted even if the backend drops it.
func (h *Handlers) LogActivity(c *fiber.Ctx) error {
	type ActivityInput struct {
		Category    string `json:"category" validate:"required"`
		Description string `json:"description"`
	}

	var input ActivityInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid input")
	}
	input.Category = strings.TrimSpace(input.Category)
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, "Category is required.")
	}
	h.Activity.Append(c.UserContext(), input.Category, input.Description)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "success"})
}

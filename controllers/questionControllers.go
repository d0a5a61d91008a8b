package controllers

import (
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/catalog"
	"github.com/gofiber/fiber/v2"
)

// GetQuestions returns the authoring view, correct answers included. Only
// course owners reach it.
func (h *Handlers) GetQuestions(c *fiber.Ctx) error {
	questions, err := h.Catalog.Questions(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "Failed to load questions")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "questions": questions})
}

// ReplaceQuestions accepts {"questions":[...]} or a bare array and swaps the
// whole set.
func (h *Handlers) ReplaceQuestions(c *fiber.Ctx) error {
	input, err := catalog.ParseQuestions(c.Body())
	if err != nil {
		return h.fail(c, err, "Failed to parse request body")
	}
	questions, err := h.Catalog.ReplaceQuestions(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return h.fail(c, err, "Failed to save")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "questions": questions})
}

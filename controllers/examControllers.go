package controllers

import (
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/exam"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/gofiber/fiber/v2"
)

// LoadExam always opens a fresh attempt for the course.
func (h *Handlers) LoadExam(c *fiber.Ctx) error {
	uid := session.Current(c).UserID()
	attempt, err := h.Exams.Load(c.UserContext(), uid, c.Params("id"))
	if err != nil {
		return h.fail(c, err, "Failed to load course")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "exam": attempt.View()})
}

func (h *Handlers) SelectAnswer(c *fiber.Ctx) error {
	type SelectInput struct {
		Option *int `json:"option" validate:"required"`
	}

	question, err := c.ParamsInt("question")
	if err != nil {
		return badRequest(c, "Invalid question number")
	}
	var input SelectInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid input")
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, "Choose an option.")
	}

	attempt, err := h.currentAttempt(c)
	if err != nil {
		return h.fail(c, err, "Failed to save answer")
	}
	if err := attempt.Select(question, *input.Option); err != nil {
		return h.fail(c, err, "Failed to save answer")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "exam": attempt.View()})
}

// ResetExam clears the answers, or starts a retake from a result.
func (h *Handlers) ResetExam(c *fiber.Ctx) error {
	attempt, err := h.currentAttempt(c)
	if err != nil {
		return h.fail(c, err, "Failed to reset")
	}
	if err := attempt.Reset(); err != nil {
		return h.fail(c, err, "Failed to reset")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "exam": attempt.View()})
}

func (h *Handlers) SubmitExam(c *fiber.Ctx) error {
	uid := session.Current(c).UserID()
	courseID := c.Params("id")

	result, err := h.Exams.Submit(c.UserContext(), uid, courseID)
	if err != nil {
		body := fiber.Map{
			"status":  "error",
			"message": apperrors.Message(err, "Failed to submit"),
		}
		if attempt, gerr := h.Exams.Get(uid, courseID); gerr == nil {
			body["exam"] = attempt.View()
		}
		return c.Status(apperrors.HTTPStatus(err)).JSON(body)
	}
	h.Catalog.Resolver().Invalidate(uid, courseID)

	attempt, err := h.Exams.Get(uid, courseID)
	if err != nil {
		return h.fail(c, err, "Failed to submit")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"result": result,
		"exam":   attempt.View(),
	})
}

// CloseExam dismisses the result and forgets the attempt.
func (h *Handlers) CloseExam(c *fiber.Ctx) error {
	h.Exams.Discard(session.Current(c).UserID(), c.Params("id"))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}

// DownloadCertificate streams the certificate of a passed attempt. When it
// cannot be fetched the browser is sent to the file itself instead.
func (h *Handlers) DownloadCertificate(c *fiber.Ctx) error {
	attempt, err := h.currentAttempt(c)
	if err != nil {
		return h.fail(c, err, "No certificate available")
	}
	cert, err := attempt.Certificate()
	if err != nil {
		return h.fail(c, err, "No certificate available")
	}

	bin, err := h.Gateway.FetchBinary(c.UserContext(), cert.URL)
	if err != nil {
		h.Log.Warn().Err(err).Str("url", cert.URL).Msg("certificate download failed, redirecting")
		return c.Redirect(cert.URL, fiber.StatusFound)
	}
	c.Attachment(cert.FileName)
	c.Set(fiber.HeaderContentType, bin.ContentType)
	return c.Status(fiber.StatusOK).Send(bin.Data)
}

func (h *Handlers) currentAttempt(c *fiber.Ctx) (*exam.Attempt, error) {
	return h.Exams.Get(session.Current(c).UserID(), c.Params("id"))
}

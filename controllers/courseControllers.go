package controllers

import (
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/catalog"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/gofiber/fiber/v2"
)

func (h *Handlers) ListCourses(c *fiber.Ctx) error {
	f := catalog.ParseFilter(c.Query("q"), c.Query("status"), c.Query("page"))
	view, err := h.Catalog.Catalog(c.UserContext(), session.Current(c).UserID(), f)
	if err != nil {
		return h.fail(c, err, "Failed to load courses")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "catalog": view})
}

func (h *Handlers) OwnCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	rows := catalog.ParseRows(c.Query("rows"))
	view, err := h.Catalog.Own(c.UserContext(), session.Current(c).UserID(), c.Query("q"), page, rows)
	if err != nil {
		return h.fail(c, err, "Failed to load courses")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "courses": view})
}

func (h *Handlers) GetCourse(c *fiber.Ctx) error {
	view, err := h.Catalog.Detail(c.UserContext(), session.Current(c).UserID(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "Failed to load course")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "course": view})
}

func (h *Handlers) ManageCourse(c *fiber.Ctx) error {
	course, err := h.Catalog.Manage(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "Failed to load course")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "course": course})
}

func (h *Handlers) CreateCourse(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Course details must be sent as a form")
	}
	course, err := h.Catalog.Create(c.UserContext(), form)
	if err != nil {
		return h.fail(c, err, "Failed to create course")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "course": course})
}

func (h *Handlers) UpdateCourse(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Course details must be sent as a form")
	}
	course, err := h.Catalog.Update(c.UserContext(), c.Params("id"), form)
	if err != nil {
		return h.fail(c, err, "Failed to update course")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "course": course})
}

func (h *Handlers) DeleteCourse(c *fiber.Ctx) error {
	if err := h.Catalog.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err, "Delete failed")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "message": "Course deleted"})
}

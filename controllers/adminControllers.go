package controllers

import (
	"strings"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/gateway"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"github.com/gofiber/fiber/v2"
)

const usersPerPage = 10

// GetAllUsers lists the accounts the caller may manage: every Viewer,
// Admin and Lecture except the caller.
func (h *Handlers) GetAllUsers(c *fiber.Ctx) error {
	me := session.Current(c)

	users, err := h.Gateway.ListUsers(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Failed to load users")
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	visible := make([]models.User, 0, len(users))
	for _, u := range users {
		if !u.Role.In(models.ManagedRoles) || u.ID == me.UserID() {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		visible = append(visible, u)
	}

	pg := util.Paginate(visible, c.QueryInt("page", 1), usersPerPage)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       "success",
		"users":        pg.Items,
		"total":        pg.TotalItems,
		"count":        len(pg.Items),
		"per_page":     pg.PageSize,
		"current_page": pg.Page,
		"total_pages":  pg.TotalPages,
		"roles":        models.ManagedRoles,
	})
}

func (h *Handlers) AddUser(c *fiber.Ctx) error {
	type AddUserInput struct {
		Name  string      `json:"name" validate:"required"`
		Email string      `json:"email" validate:"required,email"`
		Role  models.Role `json:"role"`
	}

	var input AddUserInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = models.RoleViewer
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, validationMessage(err, map[string]string{
			"Name":  "Name is required.",
			"Email": "Please enter a valid email address.",
		}, "Error creating user"))
	}
	if !input.Role.In(models.ManagedRoles) {
		return badRequest(c, "Choose a valid role.")
	}

	tempPassword, err := h.Gateway.AddUser(c.UserContext(), gateway.NewUser{Name: input.Name, Email: input.Email, Role: input.Role})
	if err != nil {
		return h.fail(c, err, "Error creating user")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":       "success",
		"tempPassword": tempPassword,
	})
}

func (h *Handlers) UpdateUserRole(c *fiber.Ctx) error {
	type RoleInput struct {
		Role models.Role `json:"role" validate:"required"`
	}

	id := c.Params("id")
	if id == session.Current(c).UserID() {
		return badRequest(c, "You cannot change your own role.")
	}
	var input RoleInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid input")
	}
	if err := h.validate.Struct(input); err != nil || !input.Role.In(models.ManagedRoles) {
		return badRequest(c, "Choose a valid role.")
	}

	if err := h.Gateway.UpdateUserRole(c.UserContext(), id, input.Role); err != nil {
		return h.fail(c, err, "Failed to update role")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"id":     id,
		"role":   input.Role,
	})
}

func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == session.Current(c).UserID() {
		return badRequest(c, "You cannot delete your own account.")
	}
	if err := h.Gateway.DeleteUser(c.UserContext(), id); err != nil {
		return h.fail(c, err, "Failed to delete user")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success", "message": "User deleted"})
}

func (h *Handlers) TriggerBackup(c *fiber.Ctx) error {
	res, err := h.Gateway.TriggerBackup(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Backup failed")
	}
	h.Gateway.LogActivity(c.UserContext(), "System Backup", "Triggered a full system backup")

	message := res.Message
	if message == "" {
		message = "Backup started"
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "success", "message": message})
}

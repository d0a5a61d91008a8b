package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const loginFailed = "Invalid email or password."

func (h *Handlers) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required"`
		RememberMe bool   `json:"rememberMe"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid input")
	}
	input.Email = strings.TrimSpace(input.Email)
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c, validationMessage(err, map[string]string{
			"Email":    "Please enter a valid email address.",
			"Password": "Please enter your password.",
		}, loginFailed))
	}

	res, err := h.Gateway.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		var e *apperrors.Error
		if errors.As(err, &e) && e.Kind == apperrors.KindAuth && e.Message == "" {
			err = apperrors.FromStatus(e.Status, loginFailed)
		}
		return h.fail(c, err, loginFailed)
	}

	id, err := h.Sessions.Login(c, res.Token, res.User, input.RememberMe)
	if err != nil {
		return h.fail(c, err, "Could not start your session")
	}
	h.Log.Info().Str("user", id.UserID()).Str("scope", id.Scope.String()).Msg("user logged in")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":          "success",
		"isAuthenticated": true,
		"user":            id.User,
		"navigation":      models.NavigationFor(id.Role()),
	})
}

func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := h.Sessions.Logout(c); err != nil {
		return h.fail(c, err, "Could not end your session")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":          "success",
		"isAuthenticated": false,
	})
}

func (h *Handlers) Me(c *fiber.Ctx) error {
	id := session.Current(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":          "success",
		"isAuthenticated": id.Authenticated,
		"user":            id.User,
		"role":            id.Role(),
	})
}

const (
	oauthStateCookie = "oauth_pending"
	oauthStateTTL    = 10 * time.Minute
)

func (h *Handlers) GoogleLogin(c *fiber.Ctx) error {
	h.beginOAuth(c)
	return c.Redirect(h.Gateway.GoogleLoginURL(), fiber.StatusFound)
}

func (h *Handlers) AzureLogin(c *fiber.Ctx) error {
	h.beginOAuth(c)
	return c.Redirect(h.Gateway.AzureLoginURL(), fiber.StatusFound)
}

// beginOAuth marks this browser as having started a provider login. The
// callback is only honoured while the mark is present.
func (h *Handlers) beginOAuth(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    uuid.NewString(),
		Path:     "/auth",
		MaxAge:   int(oauthStateTTL.Seconds()),
		Expires:  time.Now().Add(oauthStateTTL),
		Secure:   h.Config != nil && h.Config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// AuthCallback finishes a Google or Azure login. The identity always comes
// from the token's claims; a user record sent alongside may only fill in
// profile fields and must agree with the token on id and role. OAuth logins
// are always remembered.
func (h *Handlers) AuthCallback(c *fiber.Ctx) error {
	started := c.Cookies(oauthStateCookie) != ""
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Path:     "/auth",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if !started {
		h.Log.Warn().Str("ip", c.IP()).Msg("auth callback without a pending provider login")
		return c.Redirect("/login", fiber.StatusFound)
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return c.Redirect("/login", fiber.StatusFound)
	}
	user, err := util.UserFromToken(token)
	if err != nil {
		h.Log.Warn().Err(err).Msg("auth callback token has no usable claims")
		return c.Redirect("/login", fiber.StatusFound)
	}

	if raw := c.Query("user"); raw != "" {
		var sent models.User
		if err := sonic.UnmarshalString(raw, &sent); err != nil {
			h.Log.Warn().Err(err).Msg("auth callback carried an unreadable user")
			return c.Redirect("/login", fiber.StatusFound)
		}
		if !agrees(user, sent) {
			h.Log.Warn().Str("user", user.ID).Msg("auth callback user does not match token")
			return c.Redirect("/login", fiber.StatusFound)
		}
		user = withProfile(user, sent)
	}

	if _, err := h.Sessions.Login(c, token, user, true); err != nil {
		h.Log.Error().Err(err).Msg("could not store oauth session")
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.Redirect("/", fiber.StatusFound)
}

func agrees(claimed, sent models.User) bool {
	if sent.ID != "" && sent.ID != claimed.ID {
		return false
	}
	return sent.Role == "" || sent.Role == claimed.Role
}

func withProfile(u, sent models.User) models.User {
	if u.Name == "" {
		u.Name = sent.Name
	}
	if u.Email == "" {
		u.Email = sent.Email
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = sent.ProfilePicture
	}
	return u
}

package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/utils"
)

type AuthController struct {
	Store *cms.Client
	Log   *zap.Logger
}

func NewAuthController(store *cms.Client, logger *zap.Logger) *AuthController {
	return &AuthController{Store: store, Log: logger}
}

// Login proxies credentials to the CMS and hands back its JWT. Tokens are
// issued and verified by the CMS; this service never mints its own.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	result, err := ac.Store.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, cms.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		if errors.Is(err, cms.ErrUnavailable) {
			ac.Log.Error("auth backend unavailable", zap.Error(err))
			return utils.BadGateway(c, "Authentication service unavailable")
		}
		ac.Log.Error("login failed", zap.Error(err))
		return utils.InternalServerError(c, "Could not authenticate")
	}

	return c.JSON(fiber.Map{
		"token": result.Token,
		"user": fiber.Map{
			"id":       result.User.ID,
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/utils"
)

type MaterialsController struct {
	Store *cms.Client
	Log   *zap.Logger
}

func NewMaterialsController(store *cms.Client, logger *zap.Logger) *MaterialsController {
	return &MaterialsController{Store: store, Log: logger}
}

// List handles GET /api/sales-materials?category=&search=.
func (mc *MaterialsController) List(c *fiber.Ctx) error {
	materials, err := mc.Store.ListSalesMaterials(c.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		if errors.Is(err, cms.ErrUnavailable) {
			mc.Log.Error("cms unavailable", zap.Error(err))
			return utils.BadGateway(c, "Content service unavailable")
		}
		mc.Log.Error("materials request failed", zap.Error(err))
		return utils.InternalServerError(c, "Could not load sales materials")
	}
	return utils.Success(c, fiber.StatusOK, materials, fiber.Map{"count": len(materials)})
}

// Logos handles GET /api/logos?domain=. Unauthenticated: the login page
// resolves its branding before any token exists.
func (mc *MaterialsController) Logos(c *fiber.Ctx) error {
	logos, err := mc.Store.FindLogos(c.Context(), c.Query("domain"))
	if err != nil {
		if errors.Is(err, cms.ErrUnavailable) {
			mc.Log.Error("cms unavailable", zap.Error(err))
			return utils.BadGateway(c, "Content service unavailable")
		}
		mc.Log.Error("logo request failed", zap.Error(err))
		return utils.InternalServerError(c, "Could not load logos")
	}
	return utils.Success(c, fiber.StatusOK, logos)
}

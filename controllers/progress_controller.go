package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/models"
	"github.com/sasch040/salesacademy-sub000/progress"
	"github.com/sasch040/salesacademy-sub000/utils"
)

type ProgressController struct {
	Svc *progress.Service
	Log *zap.Logger
}

func NewProgressController(svc *progress.Service, logger *zap.Logger) *ProgressController {
	return &ProgressController{Svc: svc, Log: logger}
}

// UpsertInput is the body of POST /api/progress: one completion signal from
// the player. Nil booleans mean the signal does not report that flag.
type UpsertInput struct {
	UserEmail      string `json:"userEmail"`
	ModuleID       int    `json:"module_id"`
	CourseID       int    `json:"course_id"`
	VideoCompleted *bool  `json:"video_completed"`
	QuizCompleted  *bool  `json:"quiz_completed"`
}

// List handles GET /api/progress with optional userEmail/moduleId/courseId
// filters.
func (pc *ProgressController) List(c *fiber.Ctx) error {
	filter := models.ProgressFilter{
		UserEmail: c.Query("userEmail"),
		ModuleID:  c.QueryInt("moduleId"),
		CourseID:  c.QueryInt("courseId"),
	}

	grouped, err := pc.Svc.List(c.Context(), filter)
	if err != nil {
		return pc.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"data":     grouped.Records,
		"byUser":   grouped.ByUser,
		"byModule": grouped.ByModule,
		"byCourse": grouped.ByCourse,
		"meta": fiber.Map{
			"count": len(grouped.Records),
		},
	})
}

// Upsert handles POST /api/progress.
func (pc *ProgressController) Upsert(c *fiber.Ctx) error {
	var input UpsertInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	result, err := pc.Svc.Upsert(c.Context(), input.UserEmail, input.ModuleID, progress.Patch{
		VideoCompleted: input.VideoCompleted,
		QuizCompleted:  input.QuizCompleted,
		CourseID:       input.CourseID,
	})
	if err != nil {
		return pc.fail(c, err)
	}

	action := "updated"
	status := fiber.StatusOK
	if result.Created {
		action = "created"
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"action":  action,
		"data":    result.Record,
	})
}

// Get handles GET /api/progress/:id.
func (pc *ProgressController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid progress record ID")
	}

	rec, err := pc.Svc.Get(c.Context(), id)
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, rec)
}

// Update handles PUT /api/progress/:id with a partial record body.
func (pc *ProgressController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid progress record ID")
	}

	var input UpsertInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	rec, err := pc.Svc.Update(c.Context(), id, progress.Patch{
		VideoCompleted: input.VideoCompleted,
		QuizCompleted:  input.QuizCompleted,
		CourseID:       input.CourseID,
	})
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.Success(c, fiber.StatusOK, rec)
}

// Delete handles DELETE /api/progress/:id.
func (pc *ProgressController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid progress record ID")
	}

	if err := pc.Svc.Delete(c.Context(), id); err != nil {
		return pc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"deleted": id,
	})
}

// fail maps service and store errors onto the HTTP surface.
func (pc *ProgressController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrValidation):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, progress.ErrUserNotFound):
		return utils.NotFound(c, "User not found")
	case errors.Is(err, cms.ErrNotFound):
		return utils.NotFound(c, "Progress record not found")
	case errors.Is(err, cms.ErrUnavailable):
		pc.Log.Error("progress store unavailable", zap.Error(err))
		return utils.BadGateway(c, "Progress store unavailable")
	default:
		pc.Log.Error("progress request failed", zap.Error(err))
		return utils.InternalServerError(c, "Could not process progress request")
	}
}

package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/config"
	"github.com/sasch040/salesacademy-sub000/utils"
)

type CoursesController struct {
	Store *cms.Client
	Cfg   *config.Config
	Log   *zap.Logger
}

func NewCoursesController(store *cms.Client, cfg *config.Config, logger *zap.Logger) *CoursesController {
	return &CoursesController{Store: store, Cfg: cfg, Log: logger}
}

func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.Store.ListCourses(c.Context())
	if err != nil {
		return cc.fail(c, err, "Course")
	}
	return utils.Success(c, fiber.StatusOK, courses, fiber.Map{"count": len(courses)})
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := cc.Store.GetCourse(c.Context(), id)
	if err != nil {
		return cc.fail(c, err, "Course")
	}
	return utils.Success(c, fiber.StatusOK, course)
}

// GetQuizSet serves one quiz to the player. Every question arrives with a
// resolved correct index, defaults already applied at the store boundary.
func (cc *CoursesController) GetQuizSet(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz set ID")
	}

	set, err := cc.Store.GetQuizSet(c.Context(), id)
	if err != nil {
		return cc.fail(c, err, "Quiz set")
	}
	if set.PassingScore == 0 {
		set.PassingScore = cc.Cfg.QuizPassingScore
	}
	return utils.Success(c, fiber.StatusOK, set)
}

func (cc *CoursesController) fail(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, cms.ErrNotFound):
		return utils.NotFound(c, what+" not found")
	case errors.Is(err, cms.ErrUnavailable):
		cc.Log.Error("cms unavailable", zap.Error(err))
		return utils.BadGateway(c, "Content service unavailable")
	default:
		cc.Log.Error("course request failed", zap.Error(err))
		return utils.InternalServerError(c, "Could not load "+what)
	}
}

package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/models"
)

type moduleEntity struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Order    int             `json:"order"`
	VideoURL string          `json:"video_url"`
	Quiz     json.RawMessage `json:"quiz"`
	Course   json.RawMessage `json:"course"`
}

func (e *moduleEntity) toModule() (models.Module, error) {
	mod := models.Module{
		ID:       e.ID,
		Title:    e.Title,
		Order:    e.Order,
		VideoURL: e.VideoURL,
	}
	var err error
	if mod.QuizSetID, _, err = relationRef(e.Quiz); err != nil {
		return mod, fmt.Errorf("quiz relation: %w", err)
	}
	if mod.CourseID, _, err = relationRef(e.Course); err != nil {
		return mod, fmt.Errorf("course relation: %w", err)
	}
	return mod, nil
}

func decodeCourse(raw json.RawMessage) (models.Course, error) {
	var ent struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Slug        string          `json:"slug"`
		Description string          `json:"description"`
		Modules     json.RawMessage `json:"modules"`
	}
	if err := decodeEntity(raw, &ent); err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		ID:          ent.ID,
		Title:       ent.Title,
		Slug:        ent.Slug,
		Description: ent.Description,
		Modules:     []models.Module{},
	}

	items, err := relationList(ent.Modules)
	if err != nil {
		return course, fmt.Errorf("modules relation: %w", err)
	}
	for _, item := range items {
		var me moduleEntity
		if err := decodeEntity(item, &me); err != nil {
			return course, err
		}
		mod, err := me.toModule()
		if err != nil {
			return course, err
		}
		if mod.CourseID == 0 {
			mod.CourseID = course.ID
		}
		course.Modules = append(course.Modules, mod)
	}
	return course, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	q := url.Values{}
	q.Set("populate", "*")

	var env listEnvelope
	if err := c.get(ctx, "/api/courses", q, &env); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(env.Data))
	for _, raw := range env.Data {
		course, err := decodeCourse(raw)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	q := url.Values{}
	q.Set("populate", "*")

	var env singleEnvelope
	if err := c.get(ctx, fmt.Sprintf("/api/courses/%d", id), q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, ErrNotFound
	}
	course, err := decodeCourse(env.Data)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetQuizSet loads one quiz with its questions and resolves every question's
// correct-option index. Questions whose authoring flags no option as correct
// fall back to option 0 so the player is never blocked; the gap is logged for
// operators.
func (c *Client) GetQuizSet(ctx context.Context, id int) (*models.QuizSet, error) {
	q := url.Values{}
	q.Set("populate", "questions.options")

	var env singleEnvelope
	if err := c.get(ctx, fmt.Sprintf("/api/quiz-sets/%d", id), q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, ErrNotFound
	}

	var ent struct {
		ID           int             `json:"id"`
		Title        string          `json:"title"`
		PassingScore int             `json:"passing_score"`
		Questions    json.RawMessage `json:"questions"`
	}
	if err := decodeEntity(env.Data, &ent); err != nil {
		return nil, err
	}

	set := models.QuizSet{
		ID:           ent.ID,
		Title:        ent.Title,
		PassingScore: ent.PassingScore,
		Questions:    []models.QuizQuestion{},
	}

	items, err := relationList(ent.Questions)
	if err != nil {
		return nil, fmt.Errorf("questions relation: %w", err)
	}
	for _, item := range items {
		var qe struct {
			ID      int    `json:"id"`
			Text    string `json:"text"`
			Options []struct {
				Text      string `json:"text"`
				IsCorrect bool   `json:"is_correct"`
			} `json:"options"`
		}
		if err := decodeEntity(item, &qe); err != nil {
			return nil, err
		}

		question := models.QuizQuestion{
			ID:           qe.ID,
			Text:         qe.Text,
			CorrectIndex: -1,
		}
		for i, opt := range qe.Options {
			question.Options = append(question.Options, opt.Text)
			if opt.IsCorrect && question.CorrectIndex < 0 {
				question.CorrectIndex = i
			}
		}
		if question.CorrectIndex < 0 {
			c.log.Warn("quiz question has no option flagged correct, defaulting to first",
				zap.Int("quiz_set_id", set.ID),
				zap.Int("question_id", question.ID))
			question.CorrectIndex = 0
		}
		set.Questions = append(set.Questions, question)
	}
	return &set, nil
}

// FindLogos returns the login-page branding entries for a customer domain,
// or all of them when domain is empty.
func (c *Client) FindLogos(ctx context.Context, domain string) ([]models.Logo, error) {
	q := url.Values{}
	q.Set("populate", "*")
	if domain != "" {
		filterEq(q, domain, "domain")
	}

	var env listEnvelope
	if err := c.get(ctx, "/api/logos", q, &env); err != nil {
		return nil, err
	}

	logos := make([]models.Logo, 0, len(env.Data))
	for _, raw := range env.Data {
		var ent struct {
			ID     int             `json:"id"`
			Domain string          `json:"domain"`
			Title  string          `json:"title"`
			Image  json.RawMessage `json:"image"`
		}
		if err := decodeEntity(raw, &ent); err != nil {
			return nil, err
		}
		logo := models.Logo{ID: ent.ID, Domain: ent.Domain, Title: ent.Title}
		logo.ImageURL = mediaURL(ent.Image)
		logos = append(logos, logo)
	}
	return logos, nil
}

// ListSalesMaterials queries the materials library; category is an exact
// filter, search a case-insensitive title match.
func (c *Client) ListSalesMaterials(ctx context.Context, category, search string) ([]models.SalesMaterial, error) {
	q := url.Values{}
	q.Set("populate", "*")
	if category != "" {
		filterEq(q, category, "category")
	}
	if search != "" {
		filterContains(q, search, "title")
	}

	var env listEnvelope
	if err := c.get(ctx, "/api/sales-materials", q, &env); err != nil {
		return nil, err
	}

	materials := make([]models.SalesMaterial, 0, len(env.Data))
	for _, raw := range env.Data {
		var ent struct {
			ID          int             `json:"id"`
			Title       string          `json:"title"`
			Category    string          `json:"category"`
			Description string          `json:"description"`
			File        json.RawMessage `json:"file"`
			Preview     json.RawMessage `json:"preview"`
			UpdatedAt   time.Time       `json:"updatedAt"`
		}
		if err := decodeEntity(raw, &ent); err != nil {
			return nil, err
		}
		materials = append(materials, models.SalesMaterial{
			ID:          ent.ID,
			Title:       ent.Title,
			Category:    ent.Category,
			Description: ent.Description,
			FileURL:     mediaURL(ent.File),
			PreviewURL:  mediaURL(ent.Preview),
			UpdatedAt:   ent.UpdatedAt,
		})
	}
	return materials, nil
}

// mediaURL digs the url out of a media relation in either CMS shape. Media
// is cosmetic, so shape problems degrade to an empty url instead of failing
// the request.
func mediaURL(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var wrap struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrap); err == nil && wrap.Data != nil {
		raw = wrap.Data
	}
	if string(raw) == "null" {
		return ""
	}

	var media struct {
		URL string `json:"url"`
	}
	if err := decodeEntity(raw, &media); err != nil {
		return ""
	}
	return media.URL
}

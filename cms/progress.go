package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sasch040/salesacademy-sub000/models"
)

const progressPath = "/api/module-progresses"

// progressEntity is the flattened CMS shape of one progress record; relations
// stay raw until relationRef resolves them.
type progressEntity struct {
	ID             int             `json:"id"`
	VideoCompleted bool            `json:"video_completed"`
	QuizCompleted  bool            `json:"quiz_completed"`
	Completed      bool            `json:"completed"`
	LastAccessed   time.Time       `json:"last_accessed"`
	CompletedAt    *time.Time      `json:"completed_at"`
	User           json.RawMessage `json:"user"`
	Module         json.RawMessage `json:"module"`
	Course         json.RawMessage `json:"course"`
}

func (e *progressEntity) toRecord() (models.ProgressRecord, error) {
	rec := models.ProgressRecord{
		ID:             e.ID,
		VideoCompleted: e.VideoCompleted,
		QuizCompleted:  e.QuizCompleted,
		Completed:      e.Completed,
		LastAccessed:   e.LastAccessed,
		CompletedAt:    e.CompletedAt,
	}

	var err error
	if rec.UserRef, rec.UserEmail, err = relationRef(e.User); err != nil {
		return rec, fmt.Errorf("user relation: %w", err)
	}
	if rec.ModuleID, _, err = relationRef(e.Module); err != nil {
		return rec, fmt.Errorf("module relation: %w", err)
	}
	if rec.CourseID, _, err = relationRef(e.Course); err != nil {
		return rec, fmt.Errorf("course relation: %w", err)
	}
	return rec, nil
}

// progressWrite is the CMS write shape; relations are sent as bare ids.
type progressWrite struct {
	VideoCompleted bool       `json:"video_completed"`
	QuizCompleted  bool       `json:"quiz_completed"`
	Completed      bool       `json:"completed"`
	LastAccessed   time.Time  `json:"last_accessed"`
	CompletedAt    *time.Time `json:"completed_at"`
	User           int        `json:"user"`
	Module         int        `json:"module"`
	Course         *int       `json:"course,omitempty"`
}

func writeShape(rec *models.ProgressRecord) map[string]progressWrite {
	w := progressWrite{
		VideoCompleted: rec.VideoCompleted,
		QuizCompleted:  rec.QuizCompleted,
		Completed:      rec.Completed,
		LastAccessed:   rec.LastAccessed,
		CompletedAt:    rec.CompletedAt,
		User:           rec.UserRef,
		Module:         rec.ModuleID,
	}
	if rec.CourseID != 0 {
		course := rec.CourseID
		w.Course = &course
	}
	return map[string]progressWrite{"data": w}
}

func decodeProgress(raw json.RawMessage) (models.ProgressRecord, error) {
	var ent progressEntity
	if err := decodeEntity(raw, &ent); err != nil {
		return models.ProgressRecord{}, err
	}
	return ent.toRecord()
}

// FindProgress returns every progress record matching the filter, relations
// populated so the caller gets flat records back.
func (c *Client) FindProgress(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error) {
	q := url.Values{}
	q.Set("populate", "*")
	if filter.UserRef != 0 {
		filterEq(q, itoa(filter.UserRef), "user", "id")
	}
	if filter.UserEmail != "" {
		filterEq(q, filter.UserEmail, "user", "email")
	}
	if filter.ModuleID != 0 {
		filterEq(q, itoa(filter.ModuleID), "module", "id")
	}
	if filter.CourseID != 0 {
		filterEq(q, itoa(filter.CourseID), "course", "id")
	}

	var env listEnvelope
	if err := c.get(ctx, progressPath, q, &env); err != nil {
		return nil, err
	}

	records := make([]models.ProgressRecord, 0, len(env.Data))
	for _, raw := range env.Data {
		rec, err := decodeProgress(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetProgress fetches one record by id. ErrNotFound when the id is unknown.
func (c *Client) GetProgress(ctx context.Context, id int) (*models.ProgressRecord, error) {
	q := url.Values{}
	q.Set("populate", "*")

	var env singleEnvelope
	if err := c.get(ctx, fmt.Sprintf("%s/%d", progressPath, id), q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, ErrNotFound
	}
	rec, err := decodeProgress(env.Data)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) CreateProgress(ctx context.Context, rec *models.ProgressRecord) (*models.ProgressRecord, error) {
	var env singleEnvelope
	if err := c.request(ctx, http.MethodPost, progressPath, nil, writeShape(rec), &env); err != nil {
		return nil, err
	}
	return c.savedRecord(env, rec)
}

func (c *Client) UpdateProgress(ctx context.Context, id int, rec *models.ProgressRecord) (*models.ProgressRecord, error) {
	var env singleEnvelope
	path := fmt.Sprintf("%s/%d", progressPath, id)
	if err := c.request(ctx, http.MethodPut, path, nil, writeShape(rec), &env); err != nil {
		return nil, err
	}
	return c.savedRecord(env, rec)
}

func (c *Client) DeleteProgress(ctx context.Context, id int) error {
	path := fmt.Sprintf("%s/%d", progressPath, id)
	return c.request(ctx, http.MethodDelete, path, nil, nil, nil)
}

// savedRecord folds the CMS's write response back into the record the caller
// sent. Write responses usually come without populated relations, so the
// known user/module/course values from the request are kept.
func (c *Client) savedRecord(env singleEnvelope, sent *models.ProgressRecord) (*models.ProgressRecord, error) {
	if env.Data == nil {
		return nil, ErrBadShape
	}
	saved, err := decodeProgress(env.Data)
	if err != nil {
		return nil, err
	}
	if saved.UserRef == 0 {
		saved.UserRef = sent.UserRef
	}
	if saved.UserEmail == "" {
		saved.UserEmail = sent.UserEmail
	}
	if saved.ModuleID == 0 {
		saved.ModuleID = sent.ModuleID
	}
	if saved.CourseID == 0 {
		saved.CourseID = sent.CourseID
	}
	return &saved, nil
}

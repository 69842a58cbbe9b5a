package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/models"
)

var (
	// ErrValidation is returned before any store call when required input
	// is missing.
	ErrValidation = errors.New("invalid progress input")
	// ErrUserNotFound is returned when the identity resolves to no CMS user.
	ErrUserNotFound = errors.New("user not found")
)

// Store is the slice of the CMS client the progress service depends on.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.AuthUser, error)
	FindProgress(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error)
	GetProgress(ctx context.Context, id int) (*models.ProgressRecord, error)
	CreateProgress(ctx context.Context, rec *models.ProgressRecord) (*models.ProgressRecord, error)
	UpdateProgress(ctx context.Context, id int, rec *models.ProgressRecord) (*models.ProgressRecord, error)
	DeleteProgress(ctx context.Context, id int) error
}

// Patch is the partial state a completion signal carries. Nil booleans mean
// "not reported"; a reported true is OR'd forward and never unset later.
type Patch struct {
	VideoCompleted *bool
	QuizCompleted  *bool
	CourseID       int
}

// Result is one upsert outcome: the persisted record plus whether the write
// created a new record or updated an existing one.
type Result struct {
	Record  models.ProgressRecord
	Created bool
}

type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, log: logger, now: time.Now}
}

// Upsert records a completion signal for one (user, module) pair: exactly one
// lookup and one write against the store. The lookup-then-write pair is not
// atomic; two concurrent calls for the same pair can both observe "absent"
// and double-create. The store offers no compare-and-swap through this
// interface, so that race is accepted and duplicates are logged when seen.
func (s *Service) Upsert(ctx context.Context, userEmail string, moduleID int, patch Patch) (*Result, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("%w: userEmail is required", ErrValidation)
	}
	if moduleID == 0 {
		return nil, fmt.Errorf("%w: module_id is required", ErrValidation)
	}

	user, err := s.store.FindUserByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userEmail)
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	existing, err := s.store.FindProgress(ctx, models.ProgressFilter{
		UserRef:  user.ID,
		ModuleID: moduleID,
	})
	if err != nil {
		return nil, fmt.Errorf("lookup progress: %w", err)
	}

	var rec models.ProgressRecord
	created := len(existing) == 0
	if !created {
		rec = existing[0]
		if len(existing) > 1 {
			s.log.Warn("duplicate progress records for user/module, updating the first",
				zap.Int("user_ref", user.ID),
				zap.Int("module_id", moduleID),
				zap.Int("count", len(existing)))
		}
	}

	rec.UserRef = user.ID
	rec.UserEmail = user.Email
	rec.ModuleID = moduleID
	applyPatch(&rec, patch)
	s.deriveCompletion(&rec)

	var saved *models.ProgressRecord
	if created {
		saved, err = s.store.CreateProgress(ctx, &rec)
	} else {
		saved, err = s.store.UpdateProgress(ctx, rec.ID, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("write progress: %w", err)
	}
	return &Result{Record: *saved, Created: created}, nil
}

// Update applies a partial patch to one record addressed by id, keeping the
// derived fields consistent. cms.ErrNotFound when the id is unknown.
func (s *Service) Update(ctx context.Context, id int, patch Patch) (*models.ProgressRecord, error) {
	rec, err := s.store.GetProgress(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatch(rec, patch)
	s.deriveCompletion(rec)

	return s.store.UpdateProgress(ctx, id, rec)
}

func (s *Service) Get(ctx context.Context, id int) (*models.ProgressRecord, error) {
	return s.store.GetProgress(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.store.DeleteProgress(ctx, id)
}

// applyPatch merges reported state forward: completion booleans only ever
// move false -> true, a known course id is adopted.
func applyPatch(rec *models.ProgressRecord, patch Patch) {
	if patch.VideoCompleted != nil && *patch.VideoCompleted {
		rec.VideoCompleted = true
	}
	if patch.QuizCompleted != nil && *patch.QuizCompleted {
		rec.QuizCompleted = true
	}
	if patch.CourseID != 0 {
		rec.CourseID = patch.CourseID
	}
}

// deriveCompletion recomputes the derived fields on every write: completed is
// always the AND of the two flags, completed_at is stamped once on the first
// transition to completed and kept on later saves, last_accessed moves every
// time.
func (s *Service) deriveCompletion(rec *models.ProgressRecord) {
	now := s.now()
	rec.Completed = rec.VideoCompleted && rec.QuizCompleted
	if rec.Completed && rec.CompletedAt == nil {
		completedAt := now
		rec.CompletedAt = &completedAt
	}
	rec.LastAccessed = now
}

package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/cms"
	"github.com/sasch040/salesacademy-sub000/models"
)

// fakeStore is an in-memory stand-in for the CMS client.
type fakeStore struct {
	users   map[string]models.AuthUser
	records map[int]models.ProgressRecord
	nextID  int

	findCalls   int
	createCalls int
	updateCalls int
	failWith    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]models.AuthUser{
			"a@x.com": {ID: 3, Username: "anna", Email: "a@x.com"},
		},
		records: map[int]models.ProgressRecord{},
		nextID:  1,
	}
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.AuthUser, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	user, ok := f.users[email]
	if !ok {
		return nil, cms.ErrNotFound
	}
	return &user, nil
}

func (f *fakeStore) FindProgress(_ context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.findCalls++
	var out []models.ProgressRecord
	for _, rec := range f.records {
		if filter.UserRef != 0 && rec.UserRef != filter.UserRef {
			continue
		}
		if filter.UserEmail != "" && rec.UserEmail != filter.UserEmail {
			continue
		}
		if filter.ModuleID != 0 && rec.ModuleID != filter.ModuleID {
			continue
		}
		if filter.CourseID != 0 && rec.CourseID != filter.CourseID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) GetProgress(_ context.Context, id int) (*models.ProgressRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, cms.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeStore) CreateProgress(_ context.Context, rec *models.ProgressRecord) (*models.ProgressRecord, error) {
	f.createCalls++
	saved := *rec
	saved.ID = f.nextID
	f.nextID++
	f.records[saved.ID] = saved
	return &saved, nil
}

func (f *fakeStore) UpdateProgress(_ context.Context, id int, rec *models.ProgressRecord) (*models.ProgressRecord, error) {
	f.updateCalls++
	if _, ok := f.records[id]; !ok {
		return nil, cms.ErrNotFound
	}
	saved := *rec
	saved.ID = id
	f.records[id] = saved
	return &saved, nil
}

func (f *fakeStore) DeleteProgress(_ context.Context, id int) error {
	if _, ok := f.records[id]; !ok {
		return cms.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func newTestService(store Store) *Service {
	return NewService(store, zap.NewNop())
}

func boolPtr(b bool) *bool { return &b }

func TestUpsertCreateThenUpdate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	first, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{
		VideoCompleted: boolPtr(true),
		CourseID:       2,
	})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.Record.VideoCompleted)
	assert.False(t, first.Record.QuizCompleted)
	assert.False(t, first.Record.Completed)
	assert.Nil(t, first.Record.CompletedAt)
	assert.Equal(t, 2, first.Record.CourseID)
	assert.Equal(t, 3, first.Record.UserRef)

	second, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{
		QuizCompleted: boolPtr(true),
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.True(t, second.Record.VideoCompleted)
	assert.True(t, second.Record.QuizCompleted)
	assert.True(t, second.Record.Completed)
	require.NotNil(t, second.Record.CompletedAt)

	// still exactly one record for the pair
	assert.Len(t, store.records, 1)
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, 1, store.updateCalls)
}

func TestUpsertSequentialIdempotence(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	patch := Patch{VideoCompleted: boolPtr(true), CourseID: 2}

	first, err := svc.Upsert(context.Background(), "a@x.com", 7, patch)
	require.NoError(t, err)
	second, err := svc.Upsert(context.Background(), "a@x.com", 7, patch)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Len(t, store.records, 1)
	assert.Equal(t, first.Record.VideoCompleted, second.Record.VideoCompleted)
	assert.Equal(t, first.Record.QuizCompleted, second.Record.QuizCompleted)
	assert.Equal(t, first.Record.Completed, second.Record.Completed)
}

func TestTrueFlagsNeverUnsetByOmission(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{VideoCompleted: boolPtr(true)})
	require.NoError(t, err)

	// a later signal that omits video_completed must not clear it
	result, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{})
	require.NoError(t, err)
	assert.True(t, result.Record.VideoCompleted)

	// an explicit false is treated the same as omission
	result, err = svc.Upsert(context.Background(), "a@x.com", 7, Patch{VideoCompleted: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, result.Record.VideoCompleted)
}

func TestCompletedIsAlwaysDerived(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{QuizCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, result.Record.Completed)

	result, err = svc.Upsert(context.Background(), "a@x.com", 7, Patch{VideoCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, result.Record.Completed)
	assert.Equal(t, result.Record.VideoCompleted && result.Record.QuizCompleted, result.Record.Completed)
}

func TestCompletedAtStampedOnce(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	_, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{
		VideoCompleted: boolPtr(true),
		QuizCompleted:  boolPtr(true),
	})
	require.NoError(t, err)

	firstStamp := current
	current = current.Add(48 * time.Hour)

	result, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{VideoCompleted: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, result.Record.CompletedAt)
	assert.Equal(t, firstStamp, *result.Record.CompletedAt)
	assert.Equal(t, current, result.Record.LastAccessed)
}

func TestUpsertValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Upsert(context.Background(), "", 7, Patch{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Upsert(context.Background(), "a@x.com", 0, Patch{})
	assert.ErrorIs(t, err, ErrValidation)

	// rejected before any store call
	assert.Equal(t, 0, store.findCalls)
}

func TestUpsertUnknownUser(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Upsert(context.Background(), "nobody@x.com", 7, Patch{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpsertStoreFailureSurfaces(t *testing.T) {
	store := newFakeStore()
	store.failWith = cms.ErrUnavailable
	svc := newTestService(store)

	_, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{})
	assert.ErrorIs(t, err, cms.ErrUnavailable)
}

func TestUpdateByIDKeepsDerivedFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	created, err := svc.Upsert(context.Background(), "a@x.com", 7, Patch{VideoCompleted: boolPtr(true)})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.Record.ID, Patch{QuizCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)

	_, err = svc.Update(context.Background(), 999, Patch{})
	assert.ErrorIs(t, err, cms.ErrNotFound)
}

func TestQuizSinkFeedsUpsert(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	sink := svc.SinkFor("a@x.com", 2)
	require.NoError(t, sink.QuizPassed(context.Background(), 7))

	records, err := store.FindProgress(context.Background(), models.ProgressFilter{ModuleID: 7})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].QuizCompleted)
	assert.False(t, records[0].VideoCompleted)
	assert.Equal(t, 2, records[0].CourseID)
}

package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasch040/salesacademy-sub000/models"
)

func TestGroupReconstructsFlatList(t *testing.T) {
	records := []models.ProgressRecord{
		{ID: 1, UserEmail: "a@x.com", UserRef: 3, ModuleID: 7, CourseID: 2},
		{ID: 2, UserEmail: "a@x.com", UserRef: 3, ModuleID: 8, CourseID: 2},
		{ID: 3, UserEmail: "b@x.com", UserRef: 4, ModuleID: 7, CourseID: 2},
	}

	grouped := Group(records)

	assert.Len(t, grouped.Records, 3)
	assert.Len(t, grouped.ByUser, 2)
	assert.Len(t, grouped.ByModule, 2)
	assert.Len(t, grouped.ByCourse, 1)

	// union of each grouping's values is exactly the flat list
	for _, total := range []int{counted(grouped.ByUser), countedInt(grouped.ByModule), countedInt(grouped.ByCourse)} {
		assert.Equal(t, len(records), total)
	}

	var flattened []models.ProgressRecord
	for _, recs := range grouped.ByModule {
		flattened = append(flattened, recs...)
	}
	assert.ElementsMatch(t, records, flattened)
}

func counted(m map[string][]models.ProgressRecord) int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}

func countedInt(m map[int][]models.ProgressRecord) int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}

func TestGroupOmitsMissingKeys(t *testing.T) {
	records := []models.ProgressRecord{
		{ID: 1, UserEmail: "a@x.com", ModuleID: 7}, // no course
		{ID: 2, ModuleID: 8, CourseID: 2},          // no user email
	}

	grouped := Group(records)

	assert.Len(t, grouped.Records, 2)
	assert.Len(t, grouped.ByUser["a@x.com"], 1)
	assert.Len(t, grouped.ByCourse, 1)
	assert.Len(t, grouped.ByModule, 2)
	assert.NotContains(t, grouped.ByUser, "")
	assert.NotContains(t, grouped.ByCourse, 0)
}

func TestGroupIsOrderIndependent(t *testing.T) {
	records := []models.ProgressRecord{
		{ID: 1, UserEmail: "a@x.com", ModuleID: 7, CourseID: 2},
		{ID: 2, UserEmail: "b@x.com", ModuleID: 7, CourseID: 2},
		{ID: 3, UserEmail: "a@x.com", ModuleID: 8, CourseID: 2},
	}
	reversed := []models.ProgressRecord{records[2], records[1], records[0]}

	first := Group(records)
	second := Group(reversed)

	assert.ElementsMatch(t, first.ByModule[7], second.ByModule[7])
	assert.ElementsMatch(t, first.ByUser["a@x.com"], second.ByUser["a@x.com"])
	assert.ElementsMatch(t, first.ByCourse[2], second.ByCourse[2])
}

func TestListEmptyResultIsSuccess(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	grouped, err := svc.List(context.Background(), models.ProgressFilter{ModuleID: 42})
	require.NoError(t, err)
	assert.Empty(t, grouped.Records)
	assert.NotNil(t, grouped.Records)
	assert.Empty(t, grouped.ByUser)
}

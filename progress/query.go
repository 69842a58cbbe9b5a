package progress

import (
	"context"
	"fmt"

	"github.com/sasch040/salesacademy-sub000/models"
)

// Grouped is a flat record list partitioned three ways for dashboard and
// resume-state hydration.
type Grouped struct {
	Records  []models.ProgressRecord            `json:"records"`
	ByUser   map[string][]models.ProgressRecord `json:"byUser"`
	ByModule map[int][]models.ProgressRecord    `json:"byModule"`
	ByCourse map[int][]models.ProgressRecord    `json:"byCourse"`
}

// List fetches all records matching the filter in one store call and groups
// them. Zero matches is success with empty groupings; a malformed store
// response fails the request.
func (s *Service) List(ctx context.Context, filter models.ProgressFilter) (*Grouped, error) {
	records, err := s.store.FindProgress(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return Group(records), nil
}

// Group partitions records by user email, module id and course id. A record
// missing one of those keys is left out of that grouping only; the flat list
// always carries every record. Pure and total: same input set, same result,
// regardless of order.
func Group(records []models.ProgressRecord) *Grouped {
	g := &Grouped{
		Records:  records,
		ByUser:   make(map[string][]models.ProgressRecord),
		ByModule: make(map[int][]models.ProgressRecord),
		ByCourse: make(map[int][]models.ProgressRecord),
	}
	if g.Records == nil {
		g.Records = []models.ProgressRecord{}
	}

	for _, rec := range records {
		if rec.UserEmail != "" {
			g.ByUser[rec.UserEmail] = append(g.ByUser[rec.UserEmail], rec)
		}
		if rec.ModuleID != 0 {
			g.ByModule[rec.ModuleID] = append(g.ByModule[rec.ModuleID], rec)
		}
		if rec.CourseID != 0 {
			g.ByCourse[rec.CourseID] = append(g.ByCourse[rec.CourseID], rec)
		}
	}
	return g
}

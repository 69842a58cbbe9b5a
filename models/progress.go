package models

import "time"

// ProgressRecord is the flat internal shape of one user's progress through one
// module. The CMS stores it with user/module/course relations; the cms package
// flattens those into plain ids at the boundary.
type ProgressRecord struct {
	ID             int        `json:"id,omitempty"`
	UserRef        int        `json:"user_ref"`
	UserEmail      string     `json:"user_email,omitempty"`
	ModuleID       int        `json:"module_id"`
	CourseID       int        `json:"course_id,omitempty"`
	VideoCompleted bool       `json:"video_completed"`
	QuizCompleted  bool       `json:"quiz_completed"`
	Completed      bool       `json:"completed"`
	LastAccessed   time.Time  `json:"last_accessed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ProgressFilter selects progress records by owner, module and/or course.
// Zero values mean "no constraint on this field".
type ProgressFilter struct {
	UserEmail string
	UserRef   int
	ModuleID  int
	CourseID  int
}

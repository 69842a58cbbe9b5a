package models

// Course is a read-only projection of the CMS course entity with its modules
// populated. Owned by the CMS; treated as immutable reference data here.
type Course struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Modules     []Module `json:"modules"`
}

// Module is a single learning unit (video + quiz) within a course.
type Module struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	VideoURL  string `json:"video_url,omitempty"`
	QuizSetID int    `json:"quiz_set_id,omitempty"`
	CourseID  int    `json:"course_id,omitempty"`
}

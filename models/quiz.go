package models

// QuizSet is one module's quiz as served to the player: every question carries
// a resolved correct-option index, so the client never branches on authoring
// gaps.
type QuizSet struct {
	ID           int            `json:"id"`
	Title        string         `json:"title"`
	PassingScore int            `json:"passing_score"`
	Questions    []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

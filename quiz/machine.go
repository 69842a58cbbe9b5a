// Package quiz drives a single quiz attempt as an explicit state machine,
// independent of any rendering layer. Only the derived "quiz passed" signal
// leaves the package, through a ProgressSink.
package quiz

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sasch040/salesacademy-sub000/models"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	ErrNoQuestions    = errors.New("quiz has no questions")
	ErrAlreadyStarted = errors.New("quiz attempt already started")
	ErrNotInProgress  = errors.New("quiz attempt is not in progress")
	ErrNotCompleted   = errors.New("quiz attempt is not completed")
	ErrInvalidOption  = errors.New("answer option out of range")
)

// Feedback dwell after each answer: a wrong answer gets more time on screen.
// Pacing only, the durations never touch scoring.
const (
	CorrectFeedbackDwell = 1200 * time.Millisecond
	WrongFeedbackDwell   = 2500 * time.Millisecond
)

// ProgressSink receives the quiz-passed signal at the persistence boundary.
type ProgressSink interface {
	QuizPassed(ctx context.Context, moduleID int) error
}

// Outcome describes one answer submission: whether it was right, how long the
// feedback should stay up, and the final result when it closed the attempt.
type Outcome struct {
	Correct  bool
	Dwell    time.Duration
	Finished bool
	Score    int
	Passed   bool
}

// Machine is one learner's attempt at one module's quiz. Not safe for
// concurrent use; it lives inside a single client session.
type Machine struct {
	attemptID    uuid.UUID
	moduleID     int
	questions    []models.QuizQuestion
	passingScore int
	log          *zap.Logger
	sink         ProgressSink

	state   State
	current int
	answers []int
	score   int
}

// NewMachine builds a machine over the given questions. Questions whose
// correct index is out of range are coerced to option 0 so a malformed quiz
// still loads; the coercion is logged for operators.
func NewMachine(moduleID int, set *models.QuizSet, sink ProgressSink, logger *zap.Logger) *Machine {
	questions := make([]models.QuizQuestion, len(set.Questions))
	copy(questions, set.Questions)
	for i := range questions {
		if questions[i].CorrectIndex < 0 || questions[i].CorrectIndex >= len(questions[i].Options) {
			logger.Warn("question has no usable correct option, defaulting to first",
				zap.Int("module_id", moduleID),
				zap.Int("question_id", questions[i].ID))
			questions[i].CorrectIndex = 0
		}
	}

	return &Machine{
		moduleID:     moduleID,
		questions:    questions,
		passingScore: set.PassingScore,
		log:          logger,
		sink:         sink,
		state:        NotStarted,
	}
}

// Start begins the attempt at question 0.
func (m *Machine) Start() error {
	if m.state != NotStarted {
		return ErrAlreadyStarted
	}
	if len(m.questions) == 0 {
		return ErrNoQuestions
	}
	m.begin()
	return nil
}

// Reset discards the completed attempt and begins a fresh one. There is no
// attempt history; prior answers are gone.
func (m *Machine) Reset() error {
	if m.state != Completed {
		return ErrNotCompleted
	}
	m.begin()
	return nil
}

func (m *Machine) begin() {
	m.attemptID = uuid.New()
	m.state = InProgress
	m.current = 0
	m.answers = m.answers[:0]
	m.score = 0
}

// Answer records the selected option for the current question and advances.
// On the last question it scores the attempt, moves to Completed, and emits
// the quiz-passed signal when the score reaches the passing threshold. A sink
// failure is logged and swallowed: the learner keeps their local result even
// when persistence is lost.
func (m *Machine) Answer(ctx context.Context, optionIndex int) (Outcome, error) {
	if m.state != InProgress {
		return Outcome{}, ErrNotInProgress
	}
	question := m.questions[m.current]
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return Outcome{}, ErrInvalidOption
	}

	m.answers = append(m.answers, optionIndex)

	outcome := Outcome{Correct: optionIndex == question.CorrectIndex}
	if outcome.Correct {
		outcome.Dwell = CorrectFeedbackDwell
	} else {
		outcome.Dwell = WrongFeedbackDwell
	}

	if m.current < len(m.questions)-1 {
		m.current++
		return outcome, nil
	}

	m.score = m.computeScore()
	m.state = Completed

	outcome.Finished = true
	outcome.Score = m.score
	outcome.Passed = m.score >= m.passingScore

	if outcome.Passed && m.sink != nil {
		if err := m.sink.QuizPassed(ctx, m.moduleID); err != nil {
			m.log.Warn("failed to persist quiz completion",
				zap.Int("module_id", m.moduleID),
				zap.String("attempt_id", m.attemptID.String()),
				zap.Error(err))
		}
	}
	return outcome, nil
}

func (m *Machine) computeScore() int {
	correct := 0
	for i, answer := range m.answers {
		if answer == m.questions[i].CorrectIndex {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(m.questions))))
}

func (m *Machine) State() State { return m.state }

func (m *Machine) AttemptID() uuid.UUID { return m.attemptID }

// CurrentQuestion returns the question awaiting an answer. ok is false
// outside InProgress.
func (m *Machine) CurrentQuestion() (models.QuizQuestion, bool) {
	if m.state != InProgress {
		return models.QuizQuestion{}, false
	}
	return m.questions[m.current], true
}

func (m *Machine) CurrentIndex() int { return m.current }

// Answers returns a copy of the options selected so far, in question order.
func (m *Machine) Answers() []int {
	out := make([]int, len(m.answers))
	copy(out, m.answers)
	return out
}

// Score returns the attempt score; ok is false until the attempt completed.
func (m *Machine) Score() (int, bool) {
	if m.state != Completed {
		return 0, false
	}
	return m.score, true
}

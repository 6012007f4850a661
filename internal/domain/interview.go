package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Interview errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyComplete = errors.New("interview already completed")
	ErrNotYetComplete  = errors.New("interview not completed yet")
	ErrPersistence     = errors.New("failed to persist interview log")
)

// InterviewStatus is the position of a session in its lifecycle
type InterviewStatus string

const (
	StatusAwaitingFirstQuestion InterviewStatus = "awaiting_first_question"
	StatusInProgress            InterviewStatus = "in_progress"
	StatusComplete              InterviewStatus = "complete"
)

// InterviewContext is the per-session configuration supplied at start
type InterviewContext struct {
	Company       string `json:"company"`
	Role          string `json:"role"`
	InterviewType string `json:"interview_type"`
	MaxQuestions  int    `json:"max_questions"`
	CandidateName string `json:"candidate_name"`
}

// Turn is one question/answer/evaluation unit
type Turn struct {
	QuestionNumber int        `json:"question_number"`
	Question       string     `json:"question"`
	Answer         *string    `json:"answer,omitempty"`
	Score          *int       `json:"score,omitempty"`
	Feedback       *string    `json:"feedback,omitempty"`
	QuestionTime   time.Time  `json:"question_time"`
	AnswerTime     *time.Time `json:"answer_time,omitempty"`
}

// Answered reports whether the candidate has replied to this turn
func (t Turn) Answered() bool {
	return t.Answer != nil
}

// Evaluated reports whether the turn has both an answer and a score
func (t Turn) Evaluated() bool {
	return t.Answer != nil && t.Score != nil
}

// InterviewSession is the aggregate root of one mock interview
type InterviewSession struct {
	ID              uuid.UUID        `json:"session_id"`
	Context         InterviewContext `json:"context"`
	Turns           []Turn           `json:"turns"`
	CurrentQuestion int              `json:"current_question"`
	TotalScore      int              `json:"total_score"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	IsComplete      bool             `json:"is_complete"`
}

// NewInterviewSession creates a session with no turns yet
func NewInterviewSession(ic InterviewContext, now time.Time) *InterviewSession {
	return &InterviewSession{
		ID:        uuid.New(),
		Context:   ic,
		Turns:     []Turn{},
		StartTime: now,
	}
}

// Status derives the lifecycle state from the session fields
func (s *InterviewSession) Status() InterviewStatus {
	switch {
	case s.IsComplete:
		return StatusComplete
	case len(s.Turns) == 0:
		return StatusAwaitingFirstQuestion
	default:
		return StatusInProgress
	}
}

// CurrentTurn returns the most recently asked turn, or nil before the first question
func (s *InterviewSession) CurrentTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}

// AskQuestion appends a new turn and advances the question counter
func (s *InterviewSession) AskQuestion(text string, now time.Time) *Turn {
	s.CurrentQuestion++
	s.Turns = append(s.Turns, Turn{
		QuestionNumber: s.CurrentQuestion,
		Question:       text,
		QuestionTime:   now,
	})
	return s.CurrentTurn()
}

// RecordAnswer stores the candidate's answer on the current turn
func (s *InterviewSession) RecordAnswer(answer string, now time.Time) error {
	if s.IsComplete {
		return ErrAlreadyComplete
	}
	turn := s.CurrentTurn()
	if turn == nil {
		return errors.New("no question has been asked")
	}
	turn.Answer = &answer
	turn.AnswerTime = &now
	return nil
}

// RecordEvaluation stores score and feedback on the current turn
func (s *InterviewSession) RecordEvaluation(score int, feedback string) {
	turn := s.CurrentTurn()
	if turn == nil {
		return
	}
	turn.Score = &score
	turn.Feedback = &feedback
	s.TotalScore += score
}

// OnLastQuestion reports whether the current turn is the final one
func (s *InterviewSession) OnLastQuestion() bool {
	return s.CurrentQuestion >= s.Context.MaxQuestions
}

// Complete marks the session finished. It only takes effect once.
func (s *InterviewSession) Complete(now time.Time) {
	if s.IsComplete {
		return
	}
	s.IsComplete = true
	s.EndTime = &now
}

// Scores returns recorded scores in question order
func (s *InterviewSession) Scores() []int {
	scores := make([]int, 0, len(s.Turns))
	for _, t := range s.Turns {
		if t.Score != nil {
			scores = append(scores, *t.Score)
		}
	}
	return scores
}

// AverageScore is total_score divided by the number of scores, or 0 with none
func (s *InterviewSession) AverageScore() float64 {
	n := len(s.Scores())
	if n == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(n)
}

// Clone returns a deep copy so callers can mutate without touching stored state
func (s *InterviewSession) Clone() *InterviewSession {
	c := *s
	c.Turns = make([]Turn, len(s.Turns))
	for i, t := range s.Turns {
		c.Turns[i] = t.clone()
	}
	if s.EndTime != nil {
		end := *s.EndTime
		c.EndTime = &end
	}
	return &c
}

func (t Turn) clone() Turn {
	c := t
	if t.Answer != nil {
		v := *t.Answer
		c.Answer = &v
	}
	if t.Score != nil {
		v := *t.Score
		c.Score = &v
	}
	if t.Feedback != nil {
		v := *t.Feedback
		c.Feedback = &v
	}
	if t.AnswerTime != nil {
		v := *t.AnswerTime
		c.AnswerTime = &v
	}
	return c
}

// InterviewRepository defines the interface for session storage
type InterviewRepository interface {
	Create(ctx context.Context, session *InterviewSession) error
	Get(ctx context.Context, id uuid.UUID) (*InterviewSession, error)
	Update(ctx context.Context, session *InterviewSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*InterviewSession, error)
	Reset(ctx context.Context) (int, error)
}

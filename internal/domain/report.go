package domain

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// StartRequest starts a new interview
type StartRequest struct {
	Company       string `json:"company" validate:"required,max=200"`
	Role          string `json:"role" validate:"required,max=200"`
	InterviewType string `json:"interview_type" validate:"required,max=100"`
	MaxQuestions  *int   `json:"max_questions" validate:"omitempty,min=1,max=20"`
	CandidateName string `json:"candidate_name" validate:"max=200"`
}

// StartResponse carries the first question
type StartResponse struct {
	Question       string    `json:"question"`
	QuestionNumber int       `json:"question_number"`
	TotalQuestions int       `json:"total_questions"`
	SessionID      uuid.UUID `json:"session_id"`
}

// AnswerRequest submits an answer for the current question
type AnswerRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Answer    string `json:"answer" validate:"max=20000"`
}

// FinalResults summarises a session on completion
type FinalResults struct {
	TotalScore        int     `json:"total_score"`
	AverageScore      float64 `json:"average_score"`
	QuestionsAnswered int     `json:"questions_answered"`
}

// AnswerResponse carries the next question or the completion payload
type AnswerResponse struct {
	Question          string        `json:"question"`
	QuestionNumber    int           `json:"question_number"`
	TotalQuestions    int           `json:"total_questions"`
	SessionID         uuid.UUID     `json:"session_id"`
	InterviewComplete bool          `json:"interview_complete"`
	CurrentScore      int           `json:"current_score"`
	CurrentFeedback   string        `json:"current_feedback"`
	FinalResults      *FinalResults `json:"final_results,omitempty"`
}

// QuestionResult is one evaluated turn of the final report
type QuestionResult struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
}

// InterviewResults is the final report of a completed session
type InterviewResults struct {
	SessionID        uuid.UUID        `json:"session_id"`
	Context          InterviewContext `json:"context"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          time.Time        `json:"end_time"`
	DurationMinutes  float64          `json:"duration_minutes"`
	TotalScore       int              `json:"total_score"`
	AverageScore     float64          `json:"average_score"`
	MaxPossibleScore int              `json:"max_possible_score"`
	Percentage       float64          `json:"percentage"`
	DetailedResults  []QuestionResult `json:"detailed_results"`
}

// StatusResponse counts sessions in the store
type StatusResponse struct {
	ActiveSessions int `json:"active_sessions"`
	TotalSessions  int `json:"total_sessions"`
}

// LoggedQuestion is a question entry of an exported interview log
type LoggedQuestion struct {
	Number    int       `json:"number"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// LoggedAnswer is an answer entry of an exported interview log
type LoggedAnswer struct {
	QuestionNumber int       `json:"question_number"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}

// InterviewLog is the exported snapshot of a session
type InterviewLog struct {
	SessionID    uuid.UUID        `json:"session_id"`
	Context      InterviewContext `json:"context"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      *time.Time       `json:"end_time"`
	IsComplete   bool             `json:"is_complete"`
	Questions    []LoggedQuestion `json:"questions"`
	Answers      []LoggedAnswer   `json:"answers"`
	Scores       []int            `json:"scores"`
	Feedbacks    []string         `json:"feedbacks"`
	TotalScore   int              `json:"total_score"`
	AverageScore float64          `json:"average_score"`
	SavedAt      time.Time        `json:"-"`
}

// NewInterviewLog flattens a session into its export form
func NewInterviewLog(s *InterviewSession, savedAt time.Time) *InterviewLog {
	l := &InterviewLog{
		SessionID:    s.ID,
		Context:      s.Context,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		IsComplete:   s.IsComplete,
		Questions:    make([]LoggedQuestion, 0, len(s.Turns)),
		Answers:      []LoggedAnswer{},
		Scores:       []int{},
		Feedbacks:    []string{},
		TotalScore:   s.TotalScore,
		AverageScore: Round1(s.AverageScore()),
		SavedAt:      savedAt,
	}
	for _, t := range s.Turns {
		l.Questions = append(l.Questions, LoggedQuestion{
			Number:    t.QuestionNumber,
			Text:      t.Question,
			Timestamp: t.QuestionTime,
		})
		if t.Answer != nil {
			a := LoggedAnswer{QuestionNumber: t.QuestionNumber, Text: *t.Answer}
			if t.AnswerTime != nil {
				a.Timestamp = *t.AnswerTime
			}
			l.Answers = append(l.Answers, a)
		}
		if t.Score != nil {
			l.Scores = append(l.Scores, *t.Score)
		}
		if t.Feedback != nil {
			l.Feedbacks = append(l.Feedbacks, *t.Feedback)
		}
	}
	return l
}

// LogArchive persists exported interview logs and returns where they went
type LogArchive interface {
	Save(ctx context.Context, log *InterviewLog) (string, error)
}

// Round1 rounds to one decimal place. Ties on the exact binary value go
// to the even digit, so 7.25 becomes 7.2 and 6.65 becomes 6.7.
func Round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

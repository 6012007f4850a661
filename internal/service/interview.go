package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/llm"
	"github.com/Rrens/mock-interview/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CompletionMessage is returned as the question text once the last answer is scored
const CompletionMessage = "Thank you for completing the interview! Your average score is %.1f/10."

// Generator produces model text for a conversation. *llm.Gateway implements it.
type Generator interface {
	Generate(ctx context.Context, messages []domain.Message) (llm.Completion, error)
}

// InterviewService drives sessions through question, answer and evaluation
type InterviewService struct {
	repo             domain.InterviewRepository
	generator        Generator
	defaultQuestions int
	locks            *keyedMutex
	now              func() time.Time
}

// NewInterviewService creates a new interview service
func NewInterviewService(repo domain.InterviewRepository, generator Generator, defaultQuestions int) *InterviewService {
	return &InterviewService{
		repo:             repo,
		generator:        generator,
		defaultQuestions: defaultQuestions,
		locks:            newKeyedMutex(),
		now:              time.Now,
	}
}

// Start creates a session and asks its first question
func (s *InterviewService) Start(ctx context.Context, req domain.StartRequest) (*domain.StartResponse, error) {
	maxQuestions := s.defaultQuestions
	if req.MaxQuestions != nil {
		maxQuestions = *req.MaxQuestions
	}

	session := domain.NewInterviewSession(domain.InterviewContext{
		Company:       req.Company,
		Role:          req.Role,
		InterviewType: req.InterviewType,
		MaxQuestions:  maxQuestions,
		CandidateName: req.CandidateName,
	}, s.now())

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	metrics.SessionStarted()

	question := s.generate(ctx, session.ID, llm.BuildFirstQuestionMessages(session.Context))
	turn := session.AskQuestion(question, s.now())

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record first question: %w", err)
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("company", session.Context.Company).
		Str("role", session.Context.Role).
		Int("max_questions", maxQuestions).
		Msg("interview started")

	return &domain.StartResponse{
		Question:       turn.Question,
		QuestionNumber: turn.QuestionNumber,
		TotalQuestions: maxQuestions,
		SessionID:      session.ID,
	}, nil
}

// Answer records and scores the answer to the current question, then either
// asks the next question or completes the session.
func (s *InterviewService) Answer(ctx context.Context, req domain.AnswerRequest) (*domain.AnswerResponse, error) {
	id, err := parseSessionID(req.SessionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.RecordAnswer(req.Answer, s.now()); err != nil {
		return nil, err
	}

	current := session.CurrentTurn()
	evalText := s.generate(ctx, id, llm.BuildEvaluationMessages(session.Context, current.Question, req.Answer))
	eval := llm.ParseEvaluation(evalText)
	if !eval.Parsed {
		log.Debug().Str("session_id", id.String()).Msg("evaluation had no score line, using defaults")
	}
	session.RecordEvaluation(eval.Score, eval.Feedback)
	metrics.AnswerScored(eval.Score)

	resp := &domain.AnswerResponse{
		TotalQuestions:  session.Context.MaxQuestions,
		SessionID:       id,
		CurrentScore:    eval.Score,
		CurrentFeedback: eval.Feedback,
	}

	if session.OnLastQuestion() {
		session.Complete(s.now())
		if err := s.repo.Update(ctx, session); err != nil {
			return nil, err
		}
		metrics.SessionCompleted()

		avg := domain.Round1(session.AverageScore())
		resp.Question = fmt.Sprintf(CompletionMessage, avg)
		resp.QuestionNumber = session.CurrentQuestion
		resp.InterviewComplete = true
		resp.FinalResults = &domain.FinalResults{
			TotalScore:        session.TotalScore,
			AverageScore:      avg,
			QuestionsAnswered: len(session.Scores()),
		}

		log.Info().
			Str("session_id", id.String()).
			Int("total_score", session.TotalScore).
			Float64("average_score", resp.FinalResults.AverageScore).
			Msg("interview completed")
		return resp, nil
	}

	next := session.CurrentQuestion + 1
	question := s.generate(ctx, id, llm.BuildConversation(session.Context, session.Turns, next))
	turn := session.AskQuestion(question, s.now())
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}

	resp.Question = turn.Question
	resp.QuestionNumber = turn.QuestionNumber
	return resp, nil
}

// Results builds the final report of a completed session
func (s *InterviewService) Results(ctx context.Context, sessionID string) (*domain.InterviewResults, error) {
	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsComplete {
		return nil, domain.ErrNotYetComplete
	}

	detailed := make([]domain.QuestionResult, 0, len(session.Turns))
	for _, t := range session.Turns {
		if !t.Evaluated() {
			continue
		}
		feedback := "No feedback"
		if t.Feedback != nil {
			feedback = *t.Feedback
		}
		detailed = append(detailed, domain.QuestionResult{
			QuestionNumber: t.QuestionNumber,
			Question:       t.Question,
			Answer:         *t.Answer,
			Score:          *t.Score,
			Feedback:       feedback,
		})
	}

	end := *session.EndTime
	avg := session.AverageScore()

	return &domain.InterviewResults{
		SessionID:        session.ID,
		Context:          session.Context,
		StartTime:        session.StartTime,
		EndTime:          end,
		DurationMinutes:  domain.Round1(end.Sub(session.StartTime).Seconds() / 60),
		TotalScore:       session.TotalScore,
		AverageScore:     domain.Round1(avg),
		MaxPossibleScore: len(session.Scores()) * llm.MaxScore,
		Percentage:       domain.Round1(avg * 100 / float64(llm.MaxScore)),
		DetailedResults:  detailed,
	}, nil
}

// Status counts incomplete and total sessions
func (s *InterviewService) Status(ctx context.Context) (*domain.StatusResponse, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	resp := &domain.StatusResponse{TotalSessions: len(sessions)}
	for _, session := range sessions {
		if !session.IsComplete {
			resp.ActiveSessions++
		}
	}
	return resp, nil
}

// Reset discards every session
func (s *InterviewService) Reset(ctx context.Context) error {
	n, err := s.repo.Reset(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset sessions: %w", err)
	}
	log.Info().Int("sessions", n).Msg("all sessions reset")
	return nil
}

func (s *InterviewService) lookup(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	id, err := parseSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// parseSessionID maps malformed ids to ErrSessionNotFound; no session can have one
func parseSessionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	return id, nil
}

// generate always yields text; backend failures are logged by the gateway and
// replaced with the fallback response.
func (s *InterviewService) generate(ctx context.Context, id uuid.UUID, messages []domain.Message) string {
	comp, err := s.generator.Generate(ctx, messages)
	if err != nil && !errors.Is(err, llm.ErrBackendFailure) {
		log.Error().Err(err).Str("session_id", id.String()).Msg("unexpected generator error")
	}
	if err != nil && comp.Content == "" {
		return llm.FallbackResponse
	}
	return comp.Content
}

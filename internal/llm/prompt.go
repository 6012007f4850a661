package llm

import (
	"fmt"

	"github.com/Rrens/mock-interview/internal/domain"
)

// BuildQuestionPrompt asks the model for exactly one question at the given position
func BuildQuestionPrompt(ic domain.InterviewContext, questionNumber, totalQuestions int) string {
	return fmt.Sprintf(
		"You are an expert interviewer at %s conducting a %s interview for the %s position. "+
			"This is question %d of %d. Ask ONE professional, relevant question. "+
			"Keep it clear and focused on assessing the candidate's skills.",
		ic.Company, ic.InterviewType, ic.Role, questionNumber, totalQuestions,
	)
}

// BuildEvaluationPrompt asks the model to score an answer in the Score:/Feedback: format
func BuildEvaluationPrompt(ic domain.InterviewContext, question, answer string) string {
	return fmt.Sprintf(`As an expert interviewer for %s at %s, evaluate this %s interview answer.

Question: %s
Answer: %s

Provide a score from 1-10 and brief feedback. Format your response as:
Score: [number]
Feedback: [brief constructive feedback]
Focus on technical accuracy, communication clarity, and relevance to the role.`,
		ic.Role, ic.Company, ic.InterviewType, question, answer)
}

// BuildFirstQuestionMessages is the single-message conversation that opens an interview
func BuildFirstQuestionMessages(ic domain.InterviewContext) []domain.Message {
	prompt := BuildQuestionPrompt(ic, 1, ic.MaxQuestions)
	return []domain.Message{
		{
			Role: domain.RoleUser,
			Content: fmt.Sprintf("%s\n\nStart the %s interview for the %s position at %s with your first question.",
				prompt, ic.InterviewType, ic.Role, ic.Company),
		},
	}
}

// BuildEvaluationMessages wraps the evaluation prompt as a conversation
func BuildEvaluationMessages(ic domain.InterviewContext, question, answer string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleUser, Content: BuildEvaluationPrompt(ic, question, answer)},
	}
}

// BuildConversation replays every answered turn as assistant/user pairs
// between a fresh question instruction and a request for the next question.
func BuildConversation(ic domain.InterviewContext, turns []domain.Turn, nextQuestion int) []domain.Message {
	messages := make([]domain.Message, 0, 2*len(turns)+2)
	messages = append(messages, domain.Message{
		Role:    domain.RoleUser,
		Content: BuildQuestionPrompt(ic, nextQuestion, ic.MaxQuestions),
	})

	for _, t := range turns {
		if !t.Answered() {
			continue
		}
		messages = append(messages,
			domain.Message{Role: domain.RoleAssistant, Content: t.Question},
			domain.Message{Role: domain.RoleUser, Content: *t.Answer},
		)
	}

	messages = append(messages, domain.Message{
		Role:    domain.RoleUser,
		Content: fmt.Sprintf("Based on the conversation, ask the next relevant question for this %s interview.", ic.InterviewType),
	})
	return messages
}

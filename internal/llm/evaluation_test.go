package llm_test

import (
	"testing"

	"github.com/Rrens/mock-interview/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantScore    int
		wantFeedback string
	}{
		{"well formed", "Score: 8\nFeedback: Solid answer", 8, "Solid answer"},
		{"clamped high", "Score: 12\nFeedback: Good job", 10, "Good job"},
		{"clamped low", "Score: 0\nFeedback: Bad", 1, "Bad"},
		{"no recognizable lines", "The candidate did fine.", 5, "No specific feedback provided."},
		{"empty", "", 5, "No specific feedback provided."},
		{"case insensitive", "SCORE: 7\nfeedback: ok", 7, "ok"},
		{"indented lines", "  Score: 6/10\n   Feedback:  needs depth  ", 6, "needs depth"},
		{"score out of ten", "Score: 9/10", 9, "No specific feedback provided."},
		{"no digits keeps default", "Score: excellent\nFeedback: great", 5, "great"},
		{"last line wins", "Score: 3\nScore: 7\nFeedback: first\nFeedback: second", 7, "second"},
		{"colon inside feedback", "Score: 4\nFeedback: Consider this: use a map", 4, "Consider this: use a map"},
		{"overflowing digits", "Score: 99999999999999999999999", 10, "No specific feedback provided."},
		{"prose before lines", "Here is my evaluation.\nScore: 5\nFeedback: average", 5, "average"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := llm.ParseEvaluation(tt.text)
			assert.Equal(t, tt.wantScore, eval.Score)
			assert.Equal(t, tt.wantFeedback, eval.Feedback)
		})
	}
}

func TestParseEvaluation_ParsedFlag(t *testing.T) {
	assert.True(t, llm.ParseEvaluation("Score: 8").Parsed)
	assert.False(t, llm.ParseEvaluation("nothing useful").Parsed)
}

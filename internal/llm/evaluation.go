package llm

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultScore        = 5
	DefaultFeedback     = "No specific feedback provided."
	ParseFailedFeedback = "Evaluation parsing failed."
	MinScore            = 1
	MaxScore            = 10
	scorePrefix         = "score:"
	feedbackPrefix      = "feedback:"
)

// Evaluation is the structured result extracted from a model evaluation
type Evaluation struct {
	Score    int
	Feedback string
	// Parsed is false when neither a score nor a feedback line was found
	Parsed bool
}

// ParseEvaluation extracts a 1-10 score and feedback from free-form model
// output. It never fails: unrecognised input yields the defaults. Later
// Score:/Feedback: lines overwrite earlier ones.
func ParseEvaluation(text string) (eval Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("evaluation parsing failed")
			eval = Evaluation{Score: DefaultScore, Feedback: ParseFailedFeedback}
		}
	}()

	eval = Evaluation{Score: DefaultScore, Feedback: DefaultFeedback}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, scorePrefix):
			_, rest, _ := strings.Cut(line, ":")
			if score, ok := extractScore(rest); ok {
				eval.Score = score
				eval.Parsed = true
			}
		case strings.HasPrefix(lower, feedbackPrefix):
			_, rest, _ := strings.Cut(line, ":")
			eval.Feedback = strings.TrimSpace(rest)
			eval.Parsed = true
		}
	}

	return eval
}

// extractScore finds the first run of digits and clamps it into [1,10]
func extractScore(s string) (int, bool) {
	start := strings.IndexFunc(s, isDigit)
	if start == -1 {
		return 0, false
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		// only overflow is possible here, which is far above the scale
		return MaxScore, true
	}
	return clamp(n, MinScore, MaxScore), true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package progression

import (
	"errors"
	"math"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// Scoring errors
var (
	// ErrNoQuestions is returned when grading is requested for a unit
	// with an empty question list. This is a content configuration
	// error: the caller must refuse the submission rather than report
	// 0% or 100%.
	ErrNoQuestions = errors.New("unit has no quiz questions")

	// ErrIncompleteAnswers is returned when the learner has not
	// answered every question. Scoring is refused rather than silently
	// counting the missing answers as wrong.
	ErrIncompleteAnswers = errors.New("all questions must be answered")

	// ErrAnswerOutOfRange is returned when a chosen option index does
	// not point at one of the question's options.
	ErrAnswerOutOfRange = errors.New("answer index out of range")
)

// QuizResult is the graded outcome of one quiz submission.
type QuizResult struct {
	CorrectCount   int
	TotalQuestions int
	Percentage     int
}

// gradeQuiz grades a set of answered questions against their correct
// answers. answers maps zero-based question index to the learner's
// chosen option index.
//
// The percentage is round(100 * correct / total), rounding half away
// from zero, and is never computed when the question list is empty.
func gradeQuiz(questions []domain.QuizQuestion, answers map[int]int) (*QuizResult, error) {
	total := len(questions)
	if total == 0 {
		return nil, ErrNoQuestions
	}

	correct := 0
	for i, question := range questions {
		chosen, ok := answers[i]
		if !ok {
			return nil, ErrIncompleteAnswers
		}
		if chosen < 0 || chosen >= len(question.Options) {
			return nil, ErrAnswerOutOfRange
		}
		if chosen == question.CorrectIndex {
			correct++
		}
	}

	percentage := int(math.Round(100 * float64(correct) / float64(total)))

	return &QuizResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		Percentage:     percentage,
	}, nil
}

// passes reports whether the result clears the given threshold. Strict
// grading requires a perfect score; lenient grading accepts anything at
// or above params.LenientPassPercent.
func passes(result *QuizResult, threshold domain.PassThreshold, params *Params) bool {
	switch threshold {
	case domain.PassThresholdStrict:
		return result.Percentage == 100
	case domain.PassThresholdLenient:
		return result.Percentage >= params.LenientPassPercent
	default:
		return false
	}
}

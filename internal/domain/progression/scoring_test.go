package progression

import (
	"errors"
	"testing"

	"github.com/dchandra05/sprout-api/internal/domain"
)

func threeQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{Prompt: "q1", Options: []string{"a", "b", "c"}, CorrectIndex: 0},
		{Prompt: "q2", Options: []string{"a", "b", "c"}, CorrectIndex: 1},
		{Prompt: "q3", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
	}
}

func TestGradeQuiz(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		answers         map[int]int
		wantCorrect     int
		wantPercentage  int
	}{
		{
			name:           "all correct",
			answers:        map[int]int{0: 0, 1: 1, 2: 2},
			wantCorrect:    3,
			wantPercentage: 100,
		},
		{
			name:           "two of three correct rounds to 67",
			answers:        map[int]int{0: 0, 1: 1, 2: 0},
			wantCorrect:    2,
			wantPercentage: 67,
		},
		{
			name:           "one of three correct rounds to 33",
			answers:        map[int]int{0: 0, 1: 0, 2: 0},
			wantCorrect:    1,
			wantPercentage: 33,
		},
		{
			name:           "none correct",
			answers:        map[int]int{0: 1, 1: 0, 2: 0},
			wantCorrect:    0,
			wantPercentage: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := gradeQuiz(threeQuestions(), tc.answers)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.CorrectCount != tc.wantCorrect {
				t.Errorf("expected %d correct, got %d", tc.wantCorrect, result.CorrectCount)
			}
			if result.Percentage != tc.wantPercentage {
				t.Errorf("expected %d%%, got %d%%", tc.wantPercentage, result.Percentage)
			}
		})
	}
}

func TestGradeQuizRefusesEmptyQuiz(t *testing.T) {
	t.Parallel()

	// A unit with no questions is a content configuration error; it
	// must never grade as 0% or 100%.
	_, err := gradeQuiz(nil, map[int]int{})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestGradeQuizRefusesIncompleteAnswers(t *testing.T) {
	t.Parallel()

	_, err := gradeQuiz(threeQuestions(), map[int]int{0: 0, 2: 2})
	if !errors.Is(err, ErrIncompleteAnswers) {
		t.Fatalf("expected ErrIncompleteAnswers, got %v", err)
	}
}

func TestGradeQuizRefusesOutOfRangeAnswer(t *testing.T) {
	t.Parallel()

	_, err := gradeQuiz(threeQuestions(), map[int]int{0: 0, 1: 1, 2: 3})
	if !errors.Is(err, ErrAnswerOutOfRange) {
		t.Fatalf("expected ErrAnswerOutOfRange, got %v", err)
	}
}

func TestPasses(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name       string
		percentage int
		threshold  domain.PassThreshold
		want       bool
	}{
		{name: "strict requires perfect score", percentage: 100, threshold: domain.PassThresholdStrict, want: true},
		{name: "strict rejects 99", percentage: 99, threshold: domain.PassThresholdStrict, want: false},
		{name: "strict rejects 67", percentage: 67, threshold: domain.PassThresholdStrict, want: false},
		{name: "lenient accepts 66", percentage: 66, threshold: domain.PassThresholdLenient, want: true},
		{name: "lenient accepts 100", percentage: 100, threshold: domain.PassThresholdLenient, want: true},
		{name: "lenient rejects 65", percentage: 65, threshold: domain.PassThresholdLenient, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := &QuizResult{Percentage: tc.percentage}
			if got := passes(result, tc.threshold, params); got != tc.want {
				t.Errorf("passes(%d, %s) = %v, want %v", tc.percentage, tc.threshold, got, tc.want)
			}
		})
	}
}

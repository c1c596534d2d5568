package assessment

import "github.com/google/uuid"

// starSteps are evaluated top-down; the first threshold the score reaches wins.
var starSteps = []struct {
	min   float64
	stars int
}{
	{90, 5},
	{80, 4},
	{70, 3},
	{60, 2},
	{50, 1},
}

// StarsForScore maps a 0..100 score to the star reward.
func StarsForScore(score float64) int {
	for _, step := range starSteps {
		if score >= step.min {
			return step.stars
		}
	}
	return 0
}

type QuestionOutcome struct {
	QuestionID uuid.UUID  `json:"question_id"`
	AnswerID   *uuid.UUID `json:"answer_id,omitempty"`
	Correct    bool       `json:"correct"`
}

type GradeResult struct {
	Correct  int               `json:"correct"`
	Total    int               `json:"total"`
	Score    float64           `json:"score"`
	Stars    int               `json:"stars"`
	Outcomes []QuestionOutcome `json:"outcomes"`
}

// Grade scores submitted answers against questions (with Answers loaded).
// A missing submission, or an answer id that does not belong to the question, counts as wrong.
func Grade(questions []TestQuestion, submitted map[uuid.UUID]uuid.UUID) GradeResult {
	out := GradeResult{Total: len(questions), Outcomes: make([]QuestionOutcome, 0, len(questions))}
	for _, q := range questions {
		outcome := QuestionOutcome{QuestionID: q.ID}
		if answerID, ok := submitted[q.ID]; ok {
			aid := answerID
			outcome.AnswerID = &aid
			for _, a := range q.Answers {
				if a.ID == answerID {
					outcome.Correct = a.IsCorrect
					break
				}
			}
		}
		if outcome.Correct {
			out.Correct++
		}
		out.Outcomes = append(out.Outcomes, outcome)
	}
	if out.Total > 0 {
		out.Score = float64(out.Correct) * 100 / float64(out.Total)
	}
	out.Stars = StarsForScore(out.Score)
	return out
}

// Passed reports whether score meets the test's informational passing threshold.
func (t *CourseTest) Passed(score float64) bool {
	return t != nil && score >= float64(t.PassingScore)
}

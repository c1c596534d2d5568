package assessment

import (
	"strings"

	"github.com/google/uuid"
)

type AnswerDraft struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Text      string     `json:"text"`
	IsCorrect bool       `json:"is_correct"`
}

type QuestionDraft struct {
	ID              *uuid.UUID    `json:"id,omitempty"`
	Text            string        `json:"text"`
	Answers         []AnswerDraft `json:"answers"`
	DeleteAnswerIDs []uuid.UUID   `json:"delete_answer_ids,omitempty"`
}

// QuestionSet is one save of the question editor.
type QuestionSet struct {
	Questions         []QuestionDraft `json:"questions"`
	DeleteQuestionIDs []uuid.UUID     `json:"delete_question_ids,omitempty"`
}

type PlannedAnswer struct {
	Answer TestAnswer
	IsNew  bool
}

type PlannedQuestion struct {
	Question      TestQuestion
	IsNew         bool
	Answers       []PlannedAnswer
	DeleteAnswers []uuid.UUID
}

// QuestionPlan is the full set of writes for one save.
type QuestionPlan struct {
	DeleteQuestions []uuid.UUID
	Questions       []PlannedQuestion
}

// PlanQuestions reconciles a save against the stored questions of one test (Answers loaded).
//
// Drafts with empty text are skipped. Drafts whose id matches a stored row update it; any other
// draft is appended as new. Delete ids not belonging to the test are ignored. Orders are
// reassigned 1..n: submitted questions first, then stored questions the save did not mention.
// Answers follow the same rule inside each question.
func PlanQuestions(testID uuid.UUID, existing []TestQuestion, set QuestionSet) QuestionPlan {
	byID := make(map[uuid.UUID]TestQuestion, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	plan := QuestionPlan{}
	deleted := make(map[uuid.UUID]bool)
	for _, id := range set.DeleteQuestionIDs {
		if _, ok := byID[id]; ok && !deleted[id] {
			deleted[id] = true
			plan.DeleteQuestions = append(plan.DeleteQuestions, id)
		}
	}

	touched := make(map[uuid.UUID]bool)
	order := 0
	for _, draft := range set.Questions {
		text := strings.TrimSpace(draft.Text)
		if text == "" {
			continue
		}
		var stored *TestQuestion
		if draft.ID != nil {
			if q, ok := byID[*draft.ID]; ok && !deleted[q.ID] && !touched[q.ID] {
				stored = &q
			}
		}
		order++
		pq := PlannedQuestion{}
		if stored != nil {
			touched[stored.ID] = true
			pq.Question = TestQuestion{ID: stored.ID, TestID: testID, Order: order, Text: text}
			pq.Answers, pq.DeleteAnswers = planAnswers(stored.ID, stored.Answers, draft.Answers, draft.DeleteAnswerIDs)
		} else {
			id := uuid.New()
			pq.IsNew = true
			pq.Question = TestQuestion{ID: id, TestID: testID, Order: order, Text: text}
			pq.Answers, _ = planAnswers(id, nil, draft.Answers, nil)
		}
		plan.Questions = append(plan.Questions, pq)
	}

	for _, q := range existing {
		if deleted[q.ID] || touched[q.ID] {
			continue
		}
		order++
		pq := PlannedQuestion{Question: TestQuestion{ID: q.ID, TestID: testID, Order: order, Text: q.Text}}
		pq.Answers, _ = planAnswers(q.ID, q.Answers, nil, nil)
		plan.Questions = append(plan.Questions, pq)
	}
	return plan
}

func planAnswers(questionID uuid.UUID, existing []TestAnswer, drafts []AnswerDraft, deleteIDs []uuid.UUID) ([]PlannedAnswer, []uuid.UUID) {
	byID := make(map[uuid.UUID]TestAnswer, len(existing))
	for _, a := range existing {
		byID[a.ID] = a
	}
	deleted := make(map[uuid.UUID]bool)
	var deletes []uuid.UUID
	for _, id := range deleteIDs {
		if _, ok := byID[id]; ok && !deleted[id] {
			deleted[id] = true
			deletes = append(deletes, id)
		}
	}

	touched := make(map[uuid.UUID]bool)
	out := make([]PlannedAnswer, 0, len(drafts)+len(existing))
	order := 0
	for _, draft := range drafts {
		text := strings.TrimSpace(draft.Text)
		if text == "" {
			continue
		}
		order++
		if draft.ID != nil {
			if a, ok := byID[*draft.ID]; ok && !deleted[a.ID] && !touched[a.ID] {
				touched[a.ID] = true
				out = append(out, PlannedAnswer{Answer: TestAnswer{ID: a.ID, QuestionID: questionID, Order: order, Text: text, IsCorrect: draft.IsCorrect}})
				continue
			}
		}
		out = append(out, PlannedAnswer{
			IsNew:  true,
			Answer: TestAnswer{ID: uuid.New(), QuestionID: questionID, Order: order, Text: text, IsCorrect: draft.IsCorrect},
		})
	}
	for _, a := range existing {
		if deleted[a.ID] || touched[a.ID] {
			continue
		}
		order++
		out = append(out, PlannedAnswer{Answer: TestAnswer{ID: a.ID, QuestionID: questionID, Order: order, Text: a.Text, IsCorrect: a.IsCorrect}})
	}
	return out, deletes
}

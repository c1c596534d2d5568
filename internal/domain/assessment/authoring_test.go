package assessment

import (
	"testing"

	"github.com/google/uuid"
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestPlanQuestionsAssignsSequentialOrderAndSkipsEmpty(t *testing.T) {
	testID := uuid.New()
	plan := PlanQuestions(testID, nil, QuestionSet{Questions: []QuestionDraft{
		{Text: "2+2?", Answers: []AnswerDraft{{Text: "4", IsCorrect: true}, {Text: "  "}, {Text: "5"}}},
		{Text: "   "},
		{Text: "Capital of Uzbekistan?", Answers: []AnswerDraft{{Text: "Tashkent", IsCorrect: true}}},
	}})
	if len(plan.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(plan.Questions))
	}
	for i, pq := range plan.Questions {
		if !pq.IsNew || pq.Question.Order != i+1 || pq.Question.TestID != testID {
			t.Fatalf("question %d planned wrong: %+v", i, pq.Question)
		}
	}
	answers := plan.Questions[0].Answers
	if len(answers) != 2 || answers[0].Answer.Order != 1 || answers[1].Answer.Order != 2 {
		t.Fatalf("unexpected answers plan: %+v", answers)
	}
	if answers[0].Answer.QuestionID != plan.Questions[0].Question.ID {
		t.Fatalf("answer not bound to its question")
	}
}

func TestPlanQuestionsUpdatesMatchedAndAppendsUnknown(t *testing.T) {
	testID := uuid.New()
	a1 := TestAnswer{ID: uuid.New(), Order: 1, Text: "old a1"}
	q1 := TestQuestion{ID: uuid.New(), TestID: testID, Order: 1, Text: "old q1", Answers: []TestAnswer{a1}}
	q2 := TestQuestion{ID: uuid.New(), TestID: testID, Order: 2, Text: "old q2"}

	plan := PlanQuestions(testID, []TestQuestion{q1, q2}, QuestionSet{Questions: []QuestionDraft{
		{ID: ptr(q2.ID), Text: "new q2"},
		{ID: ptr(uuid.New()), Text: "unknown id appends"},
		{ID: ptr(q1.ID), Text: "new q1", Answers: []AnswerDraft{{ID: ptr(a1.ID), Text: "new a1", IsCorrect: true}}},
	}})
	if len(plan.Questions) != 3 {
		t.Fatalf("expected 3 planned questions, got %d", len(plan.Questions))
	}
	if plan.Questions[0].Question.ID != q2.ID || plan.Questions[0].IsNew || plan.Questions[0].Question.Order != 1 {
		t.Fatalf("q2 should be updated in place at order 1: %+v", plan.Questions[0])
	}
	if !plan.Questions[1].IsNew || plan.Questions[1].Question.Order != 2 {
		t.Fatalf("unknown id should append: %+v", plan.Questions[1])
	}
	got := plan.Questions[2]
	if got.Question.ID != q1.ID || got.Question.Text != "new q1" || got.Question.Order != 3 {
		t.Fatalf("q1 should be updated at order 3: %+v", got.Question)
	}
	if len(got.Answers) != 1 || got.Answers[0].IsNew || !got.Answers[0].Answer.IsCorrect || got.Answers[0].Answer.Text != "new a1" {
		t.Fatalf("a1 should be updated in place: %+v", got.Answers)
	}
}

func TestPlanQuestionsDeleteListScopedToTest(t *testing.T) {
	testID := uuid.New()
	a1 := TestAnswer{ID: uuid.New(), Order: 1, Text: "a1"}
	a2 := TestAnswer{ID: uuid.New(), Order: 2, Text: "a2"}
	q1 := TestQuestion{ID: uuid.New(), TestID: testID, Order: 1, Text: "q1", Answers: []TestAnswer{a1, a2}}
	q2 := TestQuestion{ID: uuid.New(), TestID: testID, Order: 2, Text: "q2"}
	foreign := uuid.New()

	plan := PlanQuestions(testID, []TestQuestion{q1, q2}, QuestionSet{
		DeleteQuestionIDs: []uuid.UUID{q2.ID, foreign},
		Questions: []QuestionDraft{
			{ID: ptr(q1.ID), Text: "q1", DeleteAnswerIDs: []uuid.UUID{a1.ID, foreign}, Answers: []AnswerDraft{{ID: ptr(a2.ID), Text: "a2"}}},
		},
	})
	if len(plan.DeleteQuestions) != 1 || plan.DeleteQuestions[0] != q2.ID {
		t.Fatalf("expected only q2 deleted, got %v", plan.DeleteQuestions)
	}
	if len(plan.Questions) != 1 {
		t.Fatalf("deleted question must not be replanned: %+v", plan.Questions)
	}
	pq := plan.Questions[0]
	if len(pq.DeleteAnswers) != 1 || pq.DeleteAnswers[0] != a1.ID {
		t.Fatalf("expected only a1 deleted, got %v", pq.DeleteAnswers)
	}
	if len(pq.Answers) != 1 || pq.Answers[0].Answer.ID != a2.ID || pq.Answers[0].Answer.Order != 1 {
		t.Fatalf("a2 should be renumbered to 1: %+v", pq.Answers)
	}
}

func TestPlanQuestionsKeepsUnmentionedRowsAfterSubmitted(t *testing.T) {
	testID := uuid.New()
	q1 := TestQuestion{ID: uuid.New(), TestID: testID, Order: 1, Text: "q1"}
	q2 := TestQuestion{ID: uuid.New(), TestID: testID, Order: 2, Text: "q2"}

	plan := PlanQuestions(testID, []TestQuestion{q1, q2}, QuestionSet{Questions: []QuestionDraft{{Text: "fresh"}}})
	if len(plan.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(plan.Questions))
	}
	if plan.Questions[1].Question.ID != q1.ID || plan.Questions[1].Question.Order != 2 {
		t.Fatalf("q1 should follow the new question: %+v", plan.Questions[1].Question)
	}
	if plan.Questions[2].Question.ID != q2.ID || plan.Questions[2].Question.Order != 3 {
		t.Fatalf("q2 should be last: %+v", plan.Questions[2].Question)
	}
}

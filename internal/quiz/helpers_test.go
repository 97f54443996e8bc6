package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/skillsync/skillsync/internal/quiz"
)

func newTestEngine(t *testing.T) (quiz.Store, *quiz.Settings, *quiz.Engine) {
	t.Helper()
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)
	engine := quiz.NewSeededEngine(store, settings, 1)
	return store, settings, engine
}

func newStudent(t *testing.T, store quiz.Store) quiz.Student {
	t.Helper()
	s, err := store.CreateStudent(context.Background(), "Asha Rao", "SAP1001")
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	return s
}

// attemptAt records one attempt whose breakdown has a single populated cell.
func attemptAt(t *testing.T, store quiz.Store, studentID int64, topic quiz.Topic, diff quiz.Difficulty, correct, total int, at time.Time) {
	t.Helper()
	b := quiz.NewBreakdown()
	b[topic][diff] = quiz.Cell{Correct: correct, Total: total}
	_, err := store.AppendAttempt(context.Background(), quiz.Attempt{
		StudentID: studentID,
		Score:     correct,
		Total:     total,
		Breakdown: b,
		TakenAt:   at,
	})
	if err != nil {
		t.Fatalf("append attempt: %v", err)
	}
}

func addQuestion(t *testing.T, store quiz.Store, topic quiz.Topic, diff quiz.Difficulty) quiz.Question {
	t.Helper()
	q, err := store.AddQuestion(context.Background(), quiz.Question{
		Topic:      topic,
		Difficulty: diff,
		Prompt:     "prompt for " + string(topic) + "/" + string(diff),
		Options:    map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"},
		Correct:    "b",
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	return q
}

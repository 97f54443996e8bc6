package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillsync/skillsync/internal/quiz"
)

func TestComposeColdStartFullBank(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	for _, topic := range quiz.Topics() {
		for _, diff := range quiz.Difficulties() {
			for i := 0; i < 3; i++ {
				addQuestion(t, store, topic, diff)
			}
		}
	}

	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{NumQuestions: 12})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if q.Count != 12 || len(q.Questions) != 12 {
		t.Fatalf("expected 12 questions, got %d", len(q.Questions))
	}
	for topic, diff := range q.TargetDifficulty {
		if diff != quiz.Medium {
			t.Errorf("cold start target for %s should be medium, got %s", topic, diff)
		}
	}
	for _, item := range q.Questions {
		if item.Topic == nil || item.Difficulty == nil {
			t.Errorf("full-bank composition should not need untargeted backfill")
		}
		if item.Options == nil {
			t.Errorf("question %d has no options", item.QuestionID)
		}
	}
}

func TestComposeWeakTopicShare(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	for _, topic := range quiz.Topics() {
		for _, diff := range quiz.Difficulties() {
			for i := 0; i < 4; i++ {
				addQuestion(t, store, topic, diff)
			}
		}
	}
	// python is weak (0/10); its medium rate 0 also demotes the target to easy.
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 0, 10, time.Now())

	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{NumQuestions: 12})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(q.Questions) != 12 {
		t.Fatalf("expected 12 questions, got %d", len(q.Questions))
	}
	if q.TargetDifficulty[quiz.TopicPython] != quiz.Easy {
		t.Errorf("weak python should target easy, got %s", q.TargetDifficulty[quiz.TopicPython])
	}
	// weak_share = max(1, floor(12*0.3)) = 3, one weak topic: 3 reserved
	// python draws plus at least one baseline python draw.
	python := 0
	for _, item := range q.Questions {
		if item.Topic != nil && *item.Topic == quiz.TopicPython {
			python++
			if *item.Difficulty != quiz.Easy {
				t.Errorf("python items should carry the easy target tag, got %s", *item.Difficulty)
			}
		}
	}
	if python < 4 {
		t.Errorf("expected at least 4 python questions (3 weak share + baseline), got %d", python)
	}
}

func TestComposeBackfillWhenPoolsShort(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	// python has a deep easy pool; every other topic has a single medium
	// question. Cold start targets medium everywhere.
	for i := 0; i < 10; i++ {
		addQuestion(t, store, quiz.TopicPython, quiz.Easy)
	}
	for _, topic := range quiz.Topics() {
		if topic == quiz.TopicPython {
			continue
		}
		addQuestion(t, store, topic, quiz.Medium)
	}

	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{NumQuestions: 12})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(q.Questions) != 12 {
		t.Fatalf("expected 12 questions, got %d", len(q.Questions))
	}

	tagged := map[int64]bool{}
	backfill := 0
	for _, item := range q.Questions {
		if item.Topic == nil {
			backfill++
			continue
		}
		tagged[item.QuestionID] = true
		if *item.Topic == quiz.TopicPython && *item.Difficulty != quiz.Medium {
			// Drawn from the any-tier fallback pool but still tagged with
			// the target tier.
			t.Errorf("fallback python item should keep the medium tag, got %s", *item.Difficulty)
		}
	}
	if backfill != 5 {
		t.Errorf("expected 5 untargeted backfill items, got %d", backfill)
	}
	for _, item := range q.Questions {
		if item.Topic == nil && tagged[item.QuestionID] {
			t.Errorf("backfill drew already-selected question %d", item.QuestionID)
		}
	}
}

func TestComposeSparseBankNeverErrors(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	addQuestion(t, store, quiz.TopicSQL, quiz.Easy)
	addQuestion(t, store, quiz.TopicSQL, quiz.Easy)

	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{NumQuestions: 12})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(q.Questions) != 2 {
		t.Errorf("expected the whole 2-question bank, got %d", len(q.Questions))
	}
}

func TestComposeEmptyBank(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)

	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{NumQuestions: 12})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(q.Questions) != 0 {
		t.Errorf("expected empty quiz from empty bank, got %d", len(q.Questions))
	}
}

func TestComposeZeroQuestions(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	addQuestion(t, store, quiz.TopicPython, quiz.Medium)

	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{NumQuestions: 0})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(q.Questions) != 0 {
		t.Errorf("expected empty quiz for zero request, got %d", len(q.Questions))
	}
	if len(q.TargetDifficulty) != len(quiz.Topics()) {
		t.Errorf("target map should still cover every topic")
	}
}

func TestComposeUnknownStudent(t *testing.T) {
	_, _, engine := newTestEngine(t)
	_, err := engine.Compose(context.Background(), 99, quiz.ComposeOptions{NumQuestions: 12})
	if !errors.Is(err, quiz.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestComposeWeakLookbackOverride(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	for _, diff := range quiz.Difficulties() {
		for i := 0; i < 4; i++ {
			addQuestion(t, store, quiz.TopicPython, diff)
		}
	}
	now := time.Now()
	// Old failure, recent success: with the override shrinking the window to
	// the latest attempt, python is no longer weak.
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 0, 10, now.Add(-time.Hour))
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 10, 10, now)

	one := 1
	q, err := engine.Compose(context.Background(), s.ID, quiz.ComposeOptions{
		NumQuestions:         6,
		LookbackOverride:     &one,
		WeakLookbackOverride: &one,
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	// Window of 1 sees a perfect medium run: promote to hard.
	if q.TargetDifficulty[quiz.TopicPython] != quiz.Hard {
		t.Errorf("override window should promote python to hard, got %s", q.TargetDifficulty[quiz.TopicPython])
	}
}

package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/skillsync/skillsync/internal/quiz"
)

func TestRecommendColdStart(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)

	for _, topic := range quiz.Topics() {
		got, err := engine.Recommend(context.Background(), s.ID, topic, 6)
		if err != nil {
			t.Fatalf("recommend %s: %v", topic, err)
		}
		if got != quiz.Medium {
			t.Errorf("topic %s: expected medium for empty history, got %s", topic, got)
		}
	}
}

func TestRecommendPromoteBoundaryInclusive(t *testing.T) {
	cases := []struct {
		base quiz.Difficulty
		want quiz.Difficulty
	}{
		{quiz.Easy, quiz.Medium},
		{quiz.Medium, quiz.Hard},
		{quiz.Hard, quiz.Hard}, // already at ceiling
	}
	for _, tc := range cases {
		store, _, engine := newTestEngine(t)
		s := newStudent(t, store)
		// 7/10 is exactly the default promote threshold.
		attemptAt(t, store, s.ID, quiz.TopicPython, tc.base, 7, 10, time.Now())

		got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicPython, 6)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if got != tc.want {
			t.Errorf("baseline %s at 0.7: expected %s, got %s", tc.base, tc.want, got)
		}
	}
}

func TestRecommendDemoteBoundaryInclusive(t *testing.T) {
	cases := []struct {
		base quiz.Difficulty
		want quiz.Difficulty
	}{
		{quiz.Hard, quiz.Medium},
		{quiz.Medium, quiz.Easy},
		{quiz.Easy, quiz.Easy}, // already at floor
	}
	for _, tc := range cases {
		store, _, engine := newTestEngine(t)
		s := newStudent(t, store)
		// 4/10 is exactly the default demote threshold.
		attemptAt(t, store, s.ID, quiz.TopicSQL, tc.base, 4, 10, time.Now())

		got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicSQL, 6)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if got != tc.want {
			t.Errorf("baseline %s at 0.4: expected %s, got %s", tc.base, tc.want, got)
		}
	}
}

func TestRecommendStaysBetweenThresholds(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	attemptAt(t, store, s.ID, quiz.TopicQuant, quiz.Medium, 6, 10, time.Now())

	got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicQuant, 6)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Medium {
		t.Errorf("rate 0.6 should stay at medium, got %s", got)
	}
}

func TestRecommendBaselinePreference(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	now := time.Now()
	// Medium data exists, so it drives the decision even though the easy
	// rate alone would promote.
	attemptAt(t, store, s.ID, quiz.TopicLogical, quiz.Easy, 10, 10, now.Add(-2*time.Minute))
	attemptAt(t, store, s.ID, quiz.TopicLogical, quiz.Medium, 2, 10, now.Add(-time.Minute))

	got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicLogical, 6)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Easy {
		t.Errorf("medium rate 0.2 should demote to easy, got %s", got)
	}
}

func TestRecommendHardOnlyBaseline(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	attemptAt(t, store, s.ID, quiz.TopicLanguage, quiz.Hard, 2, 10, time.Now())

	got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicLanguage, 6)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Medium {
		t.Errorf("hard rate 0.2 should demote to medium, got %s", got)
	}
}

func TestRecommendAggregatesAcrossAttempts(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	now := time.Now()
	// Three attempts at python/medium summing to 8 correct of 10.
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 3, 4, now.Add(-3*time.Minute))
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 3, 3, now.Add(-2*time.Minute))
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 2, 3, now.Add(-time.Minute))

	got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicPython, 6)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Hard {
		t.Errorf("aggregate 0.8 >= 0.7 should promote medium to hard, got %s", got)
	}
}

func TestRecommendLookbackWindow(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	now := time.Now()
	attemptAt(t, store, s.ID, quiz.TopicStatistics, quiz.Medium, 0, 10, now.Add(-time.Hour))
	attemptAt(t, store, s.ID, quiz.TopicStatistics, quiz.Medium, 10, 10, now)

	got, err := engine.Recommend(context.Background(), s.ID, quiz.TopicStatistics, 1)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Hard {
		t.Errorf("lookback 1 sees only the perfect attempt, expected hard, got %s", got)
	}

	got, err = engine.Recommend(context.Background(), s.ID, quiz.TopicStatistics, 6)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Medium {
		t.Errorf("lookback 6 aggregates to 0.5, expected medium, got %s", got)
	}
}

func TestRecommendPromotionWinsOnOverlappingThresholds(t *testing.T) {
	store, settings, engine := newTestEngine(t)
	s := newStudent(t, store)
	ctx := context.Background()
	// Misconfigured: promote below demote. A rate satisfying both must
	// promote, since the promotion check runs first.
	if err := settings.Put(ctx, quiz.KeyPromoteThreshold, "0.3"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := settings.Put(ctx, quiz.KeyDemoteThreshold, "0.5"); err != nil {
		t.Fatalf("put: %v", err)
	}
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 4, 10, time.Now())

	got, err := engine.Recommend(ctx, s.ID, quiz.TopicPython, 6)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if got != quiz.Hard {
		t.Errorf("rate 0.4 satisfies both thresholds; promotion should win, got %s", got)
	}
}

func TestTopicProfileWithSuggestions(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 2, 3, time.Now())

	res, err := engine.TopicProfileWithSuggestions(context.Background(), s.ID, 0)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	rate := res.Profile[quiz.TopicPython][quiz.Medium]
	if rate == nil || *rate != 0.667 {
		t.Errorf("expected python/medium rate 0.667, got %v", rate)
	}
	if res.Profile[quiz.TopicPython][quiz.Easy] != nil {
		t.Errorf("expected nil rate for cell with no answers")
	}
	if res.Suggested[quiz.TopicSQL] != quiz.Medium {
		t.Errorf("untouched topic should suggest medium, got %s", res.Suggested[quiz.TopicSQL])
	}
	if len(res.Suggested) != len(quiz.Topics()) {
		t.Errorf("expected a suggestion per topic, got %d", len(res.Suggested))
	}
}

func TestTopicProfileUnknownStudent(t *testing.T) {
	_, _, engine := newTestEngine(t)
	_, err := engine.TopicProfileWithSuggestions(context.Background(), 42, 0)
	if err == nil {
		t.Fatal("expected error for unknown student")
	}
}

package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillsync/skillsync/internal/quiz"
)

func TestDashboardEmptyHistory(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)

	d, err := engine.Dashboard(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.LastScore != nil || d.AverageScore != nil {
		t.Errorf("empty history should have nil last/average")
	}
	if len(d.TimeSeries) != 0 || len(d.Results) != 0 {
		t.Errorf("empty history should have empty series")
	}
	if len(d.TopicSummary) != len(quiz.Topics()) {
		t.Fatalf("topic summary should cover all topics")
	}
	for topic, v := range d.TopicSummary {
		if v != nil {
			t.Errorf("topic %s summary should be nil, got %v", topic, *v)
		}
	}
}

func TestDashboardAggregates(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	now := time.Now()
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 5, 10, now.Add(-2*time.Hour)) // 50%
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 9, 10, now.Add(-time.Hour))   // 90%

	d, err := engine.Dashboard(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.LastScore == nil || *d.LastScore != 90.0 {
		t.Errorf("last score = %v, want 90.0", d.LastScore)
	}
	if d.AverageScore == nil || *d.AverageScore != 70.0 {
		t.Errorf("average score = %v, want 70.0", d.AverageScore)
	}
	if len(d.TimeSeries) != 2 {
		t.Fatalf("expected 2 time series points, got %d", len(d.TimeSeries))
	}
	if !d.TimeSeries[0].TakenAt.Before(d.TimeSeries[1].TakenAt) {
		t.Errorf("time series must be oldest first")
	}
	if v := d.TopicSummary[quiz.TopicPython]; v == nil || *v != 70.0 {
		t.Errorf("python summary = %v, want 70.0 (14/20)", v)
	}
	if v := d.TopicSummary[quiz.TopicSQL]; v != nil {
		t.Errorf("sql summary should be nil with no answers, got %v", *v)
	}
}

func TestDashboardZeroTotalAttempt(t *testing.T) {
	store, _, engine := newTestEngine(t)
	s := newStudent(t, store)
	now := time.Now()
	// A submission of only unknown question ids leaves a 0/0 ledger entry.
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 0, 0, now.Add(-time.Hour))
	attemptAt(t, store, s.ID, quiz.TopicPython, quiz.Medium, 8, 10, now)

	d, err := engine.Dashboard(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.TimeSeries[0].Percent != nil {
		t.Errorf("0/0 attempt should have nil percent")
	}
	if d.AverageScore == nil || *d.AverageScore != 80.0 {
		t.Errorf("average should skip nil percents, got %v", d.AverageScore)
	}
}

func TestDashboardUnknownStudent(t *testing.T) {
	_, _, engine := newTestEngine(t)
	_, err := engine.Dashboard(context.Background(), 123)
	if !errors.Is(err, quiz.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

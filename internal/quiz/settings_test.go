package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/skillsync/skillsync/internal/quiz"
)

func TestSettingsDefaultsWhenAbsent(t *testing.T) {
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)
	ctx := context.Background()

	if got := settings.Float(ctx, quiz.KeyPromoteThreshold, quiz.DefaultPromoteThreshold); got != 0.70 {
		t.Errorf("promote default = %v, want 0.70", got)
	}
	if got := settings.Int(ctx, quiz.KeyLookbackQuizzes, quiz.DefaultLookbackQuizzes); got != 6 {
		t.Errorf("lookback default = %d, want 6", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)
	ctx := context.Background()

	if err := settings.Put(ctx, quiz.KeyPromoteThreshold, "0.8"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := settings.Float(ctx, quiz.KeyPromoteThreshold, quiz.DefaultPromoteThreshold); got != 0.8 {
		t.Errorf("after write, promote = %v, want 0.8", got)
	}
	v, ok, err := store.GetSetting(ctx, quiz.KeyPromoteThreshold)
	if err != nil || !ok || v != "0.8" {
		t.Errorf("stored row = %q ok=%v err=%v, want \"0.8\"", v, ok, err)
	}
}

func TestSettingsMalformedValueDegradesToDefault(t *testing.T) {
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)
	ctx := context.Background()

	// Written directly to the store: the write path only checks the key,
	// not the value.
	if err := store.PutSetting(ctx, quiz.KeyDemoteThreshold, "not-a-number"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := settings.Float(ctx, quiz.KeyDemoteThreshold, quiz.DefaultDemoteThreshold); got != 0.40 {
		t.Errorf("malformed value should fall back to 0.40, got %v", got)
	}
	if err := store.PutSetting(ctx, quiz.KeyWeakLookback, "3.5"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := settings.Int(ctx, quiz.KeyWeakLookback, quiz.DefaultWeakLookback); got != 3 {
		t.Errorf("non-integer value should fall back to 3, got %d", got)
	}
}

func TestSettingsRejectsUnknownKeyOnWrite(t *testing.T) {
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)

	err := settings.Put(context.Background(), "max_retries", "5")
	if !errors.Is(err, quiz.ErrInvalidSettingKey) {
		t.Fatalf("expected ErrInvalidSettingKey, got %v", err)
	}
}

func TestSettingsReadPathSkipsKeyValidation(t *testing.T) {
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)

	// Reads of arbitrary keys just return the fallback.
	if got := settings.Float(context.Background(), "no_such_key", 1.5); got != 1.5 {
		t.Errorf("read of unknown key = %v, want fallback 1.5", got)
	}
}

func TestSettingsEnsureDefaults(t *testing.T) {
	store := quiz.NewInMemoryStore()
	settings := quiz.NewSettings(store)
	ctx := context.Background()

	// Pre-existing value must survive the bootstrap.
	if err := store.PutSetting(ctx, quiz.KeyWeakShareFraction, "0.25"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := settings.EnsureDefaults(ctx); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	all, err := settings.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != len(quiz.SettingDefaults) {
		t.Errorf("expected %d settings rows, got %d", len(quiz.SettingDefaults), len(all))
	}
	if all[quiz.KeyWeakShareFraction] != "0.25" {
		t.Errorf("bootstrap overwrote an existing value: %q", all[quiz.KeyWeakShareFraction])
	}
	if all[quiz.KeyLookbackQuizzes] != "6" {
		t.Errorf("missing key not defaulted: %q", all[quiz.KeyLookbackQuizzes])
	}
}

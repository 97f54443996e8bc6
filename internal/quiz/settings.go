package quiz

import (
	"context"
	"log"
	"strconv"
)

// Tunable policy keys. Writes through the admin surface are restricted to
// this allow-list; the engine's own reads never validate keys.
const (
	KeyPromoteThreshold   = "promote_threshold"
	KeyDemoteThreshold    = "demote_threshold"
	KeyWeakTopicThreshold = "weak_topic_threshold"
	KeyWeakShareFraction  = "weak_share_fraction"
	KeyLookbackQuizzes    = "lookback_quizzes"
	KeyWeakLookback       = "weak_lookback"
)

const (
	DefaultPromoteThreshold   = 0.70
	DefaultDemoteThreshold    = 0.40
	DefaultWeakTopicThreshold = 0.50
	DefaultWeakShareFraction  = 0.30
	DefaultLookbackQuizzes    = 6
	DefaultWeakLookback       = 3
)

// SettingDefaults are the seed rows written for any missing key at startup.
var SettingDefaults = map[string]string{
	KeyPromoteThreshold:   "0.7",
	KeyDemoteThreshold:    "0.4",
	KeyWeakTopicThreshold: "0.5",
	KeyWeakShareFraction:  "0.30",
	KeyLookbackQuizzes:    "6",
	KeyWeakLookback:       "3",
}

func AllowedSettingKey(key string) bool {
	_, ok := SettingDefaults[key]
	return ok
}

// Settings reads tunables from the store, degrading to defaults on absence
// or on malformed values. A corrupted row must never fail quiz generation.
type Settings struct {
	store Store
}

func NewSettings(store Store) *Settings {
	return &Settings{store: store}
}

// EnsureDefaults writes any missing allow-listed key. Existing values win.
func (s *Settings) EnsureDefaults(ctx context.Context) error {
	for k, v := range SettingDefaults {
		_, ok, err := s.store.GetSetting(ctx, k)
		if err != nil {
			return err
		}
		if !ok {
			if err := s.store.PutSetting(ctx, k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Settings) Float(ctx context.Context, key string, fallback float64) float64 {
	v, ok, err := s.store.GetSetting(ctx, key)
	if err != nil || !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("settings: %s=%q is not numeric, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func (s *Settings) Int(ctx context.Context, key string, fallback int) int {
	v, ok, err := s.store.GetSetting(ctx, key)
	if err != nil || !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("settings: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// Put upserts an allow-listed key. Values are stored as given; malformed
// numerics surface later as a read-time degradation, not a write error.
func (s *Settings) Put(ctx context.Context, key, value string) error {
	if !AllowedSettingKey(key) {
		return ErrInvalidSettingKey
	}
	return s.store.PutSetting(ctx, key, value)
}

func (s *Settings) All(ctx context.Context) (map[string]string, error) {
	return s.store.ListSettings(ctx)
}

package quiz

import "context"

// TopicProfile maps topic -> difficulty -> accuracy ratio over a lookback
// window. A nil ratio means no recorded answers at that tier.
type TopicProfile map[Topic]map[Difficulty]*float64

// ProfileResult is the GetTopicProfile response: the raw profile plus the
// adviser's suggestion per topic.
type ProfileResult struct {
	StudentID int64                `json:"student_id"`
	Profile   TopicProfile         `json:"profile"`
	Suggested map[Topic]Difficulty `json:"suggested_difficulty"`
}

// Profile aggregates correct/total per (topic, difficulty) across the
// student's most recent lookback attempts. Ratios are rounded to three
// decimals; cells with no answers stay nil.
func (e *Engine) Profile(ctx context.Context, studentID int64, lookback int) (TopicProfile, error) {
	attempts, err := e.store.RecentAttempts(ctx, studentID, lookback)
	if err != nil {
		return nil, err
	}
	accum := NewBreakdown()
	for _, a := range attempts {
		for t, row := range a.Breakdown {
			for d, cell := range row {
				acc := accum[t]
				if acc == nil {
					continue
				}
				c := acc[d]
				c.Correct += cell.Correct
				c.Total += cell.Total
				acc[d] = c
			}
		}
	}
	prof := make(TopicProfile, len(Topics()))
	for _, t := range Topics() {
		prof[t] = make(map[Difficulty]*float64, len(Difficulties()))
		for _, d := range Difficulties() {
			c := accum[t][d]
			if c.Total > 0 {
				r := round3(float64(c.Correct) / float64(c.Total))
				prof[t][d] = &r
			} else {
				prof[t][d] = nil
			}
		}
	}
	return prof, nil
}

// Recommend returns the target difficulty for one topic. A lookback <= 0
// falls back to the lookback_quizzes setting.
func (e *Engine) Recommend(ctx context.Context, studentID int64, topic Topic, lookback int) (Difficulty, error) {
	if lookback <= 0 {
		lookback = e.settings.Int(ctx, KeyLookbackQuizzes, DefaultLookbackQuizzes)
	}
	prof, err := e.Profile(ctx, studentID, lookback)
	if err != nil {
		return "", err
	}
	promote := e.settings.Float(ctx, KeyPromoteThreshold, DefaultPromoteThreshold)
	demote := e.settings.Float(ctx, KeyDemoteThreshold, DefaultDemoteThreshold)
	return recommendFor(prof[topic], promote, demote), nil
}

// TopicProfileWithSuggestions serves GetTopicProfile: one profile pass plus
// the suggested tier for every topic.
func (e *Engine) TopicProfileWithSuggestions(ctx context.Context, studentID int64, lookback int) (ProfileResult, error) {
	if _, err := e.store.GetStudent(ctx, studentID); err != nil {
		return ProfileResult{}, err
	}
	if lookback <= 0 {
		lookback = e.settings.Int(ctx, KeyLookbackQuizzes, DefaultLookbackQuizzes)
	}
	prof, err := e.Profile(ctx, studentID, lookback)
	if err != nil {
		return ProfileResult{}, err
	}
	promote := e.settings.Float(ctx, KeyPromoteThreshold, DefaultPromoteThreshold)
	demote := e.settings.Float(ctx, KeyDemoteThreshold, DefaultDemoteThreshold)
	suggested := make(map[Topic]Difficulty, len(Topics()))
	for _, t := range Topics() {
		suggested[t] = recommendFor(prof[t], promote, demote)
	}
	return ProfileResult{StudentID: studentID, Profile: prof, Suggested: suggested}, nil
}

// recommendFor applies the promotion/demotion policy to one topic's rates.
//
// The baseline tier prefers medium, then easy, then hard: whichever of those
// has data first drives the decision. With no data at any tier the cold-start
// answer is medium. The promotion check runs before the demotion check, so if
// the thresholds are misconfigured to overlap, a rate satisfying both
// promotes.
func recommendFor(rates map[Difficulty]*float64, promote, demote float64) Difficulty {
	if rates == nil {
		return Medium
	}
	var baseTier Difficulty
	var baseRate float64
	switch {
	case rates[Medium] != nil:
		baseTier, baseRate = Medium, *rates[Medium]
	case rates[Easy] != nil:
		baseTier, baseRate = Easy, *rates[Easy]
	case rates[Hard] != nil:
		baseTier, baseRate = Hard, *rates[Hard]
	default:
		return Medium
	}
	if baseRate >= promote {
		switch baseTier {
		case Easy:
			return Medium
		default:
			return Hard
		}
	}
	if baseRate <= demote {
		switch baseTier {
		case Hard:
			return Medium
		default:
			return Easy
		}
	}
	return baseTier
}

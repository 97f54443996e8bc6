package quiz

import "context"

// QuizItem is one delivered question. Topic and Difficulty are nil for
// untargeted backfill items.
type QuizItem struct {
	QuestionID int64             `json:"qid"`
	Topic      *Topic            `json:"topic"`
	Difficulty *Difficulty       `json:"difficulty"`
	Prompt     string            `json:"question"`
	Options    map[string]string `json:"options"`
}

type Quiz struct {
	StudentID        int64                `json:"student_id"`
	Questions        []QuizItem           `json:"questions"`
	Count            int                  `json:"count"`
	TargetDifficulty map[Topic]Difficulty `json:"target_difficulty"`
}

type ComposeOptions struct {
	NumQuestions         int
	LookbackOverride     *int
	WeakLookbackOverride *int
}

// Compose assembles an adaptive quiz in three stages: a reserved share for
// weak topics, an even baseline pass over every topic at its target tier,
// and an untargeted backfill from the whole bank. Short pools shrink the
// quiz rather than failing it.
func (e *Engine) Compose(ctx context.Context, studentID int64, opts ComposeOptions) (Quiz, error) {
	if _, err := e.store.GetStudent(ctx, studentID); err != nil {
		return Quiz{}, err
	}
	n := opts.NumQuestions

	weakLookback := e.settings.Int(ctx, KeyWeakLookback, DefaultWeakLookback)
	if opts.WeakLookbackOverride != nil {
		weakLookback = *opts.WeakLookbackOverride
	}
	weakThreshold := e.settings.Float(ctx, KeyWeakTopicThreshold, DefaultWeakTopicThreshold)
	weakShareFraction := e.settings.Float(ctx, KeyWeakShareFraction, DefaultWeakShareFraction)

	weak, err := e.weakTopics(ctx, studentID, weakLookback, weakThreshold)
	if err != nil {
		return Quiz{}, err
	}

	lookback := e.settings.Int(ctx, KeyLookbackQuizzes, DefaultLookbackQuizzes)
	if opts.LookbackOverride != nil {
		lookback = *opts.LookbackOverride
	}
	prof, err := e.Profile(ctx, studentID, lookback)
	if err != nil {
		return Quiz{}, err
	}
	promote := e.settings.Float(ctx, KeyPromoteThreshold, DefaultPromoteThreshold)
	demote := e.settings.Float(ctx, KeyDemoteThreshold, DefaultDemoteThreshold)
	// Computed once and shared by the weak and baseline stages.
	target := make(map[Topic]Difficulty, len(Topics()))
	for _, t := range Topics() {
		target[t] = recommendFor(prof[t], promote, demote)
	}

	quiz := Quiz{StudentID: studentID, Questions: []QuizItem{}, TargetDifficulty: target}
	if n <= 0 {
		return quiz, nil
	}

	var selected []QuizItem

	// Weak-topic share. Weak topics may be drawn from again in the baseline
	// pass; that duplication is intentional.
	if len(weak) > 0 {
		weakShare := max(1, int(float64(n)*weakShareFraction))
		perWeak := max(1, weakShare/len(weak))
		for _, t := range weak {
			diff := target[t]
			pool, err := e.store.Pool(ctx, t, diff)
			if err != nil {
				return Quiz{}, err
			}
			e.shuffle(pool)
			for _, q := range pool[:min(perWeak, len(pool))] {
				selected = append(selected, tagged(q, t, diff))
			}
		}
	}

	// Baseline pass over every topic at its target tier. A tier pool smaller
	// than the per-topic quota falls back to the topic's full pool, still
	// tagged with the target tier.
	remaining := n - len(selected)
	perTopic := max(1, remaining/len(Topics()))
	for _, t := range Topics() {
		if len(selected) >= n {
			break
		}
		diff := target[t]
		pool, err := e.store.Pool(ctx, t, diff)
		if err != nil {
			return Quiz{}, err
		}
		if len(pool) < perTopic {
			if pool, err = e.store.Pool(ctx, t, ""); err != nil {
				return Quiz{}, err
			}
		}
		e.shuffle(pool)
		take := min(perTopic, n-len(selected), len(pool))
		for _, q := range pool[:take] {
			selected = append(selected, tagged(q, t, diff))
		}
	}

	// Backfill from the whole bank, excluding anything already chosen.
	// Backfill items carry no topic/difficulty tags.
	if len(selected) < n {
		chosen := make(map[int64]bool, len(selected))
		for _, it := range selected {
			chosen[it.QuestionID] = true
		}
		var leftover []Question
		for _, t := range Topics() {
			pool, err := e.store.Pool(ctx, t, "")
			if err != nil {
				return Quiz{}, err
			}
			for _, q := range pool {
				if !chosen[q.ID] {
					leftover = append(leftover, q)
				}
			}
		}
		e.shuffle(leftover)
		for _, q := range leftover[:min(n-len(selected), len(leftover))] {
			selected = append(selected, QuizItem{QuestionID: q.ID, Prompt: q.Prompt, Options: q.Options})
		}
	}

	e.shuffleN(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	quiz.Questions = selected
	quiz.Count = len(selected)
	return quiz, nil
}

// weakTopics aggregates accuracy per topic (all tiers summed) over the most
// recent attempts. A topic is weak when it has at least one recorded answer
// and its accuracy is below the threshold. Returned in canonical topic order.
func (e *Engine) weakTopics(ctx context.Context, studentID int64, lookback int, threshold float64) ([]Topic, error) {
	attempts, err := e.store.RecentAttempts(ctx, studentID, lookback)
	if err != nil {
		return nil, err
	}
	acc := map[Topic]Cell{}
	for _, a := range attempts {
		for t, row := range a.Breakdown {
			if !ValidTopic(t) {
				continue
			}
			c := acc[t]
			for _, cell := range row {
				c.Correct += cell.Correct
				c.Total += cell.Total
			}
			acc[t] = c
		}
	}
	var weak []Topic
	for _, t := range Topics() {
		c := acc[t]
		if c.Total > 0 && float64(c.Correct)/float64(c.Total) < threshold {
			weak = append(weak, t)
		}
	}
	return weak, nil
}

func (e *Engine) shuffle(pool []Question) {
	e.shuffleN(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
}

func tagged(q Question, t Topic, d Difficulty) QuizItem {
	return QuizItem{QuestionID: q.ID, Topic: &t, Difficulty: &d, Prompt: q.Prompt, Options: q.Options}
}

package quiz

import (
	"context"
	"strings"
	"time"
)

// Answer is one submitted response: a question id and an option letter.
type Answer struct {
	QuestionID int64  `json:"qid"`
	Option     string `json:"answer"`
}

type GradeResult struct {
	StudentID int64     `json:"student_id"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Percent   float64   `json:"percent"`
	Breakdown Breakdown `json:"per_topic"`
	AttemptID int64     `json:"-"`
}

// Grade checks a batch of answers against the bank's answer key and appends
// one attempt to the ledger. Unknown question ids are skipped and do not
// count toward the total; the option compare is case-insensitive. Percent is
// rounded to two decimals, 0.0 when nothing was recognized.
func (e *Engine) Grade(ctx context.Context, studentID int64, answers []Answer) (GradeResult, error) {
	if _, err := e.store.GetStudent(ctx, studentID); err != nil {
		return GradeResult{}, err
	}
	var ids []int64
	for _, a := range answers {
		if a.QuestionID != 0 {
			ids = append(ids, a.QuestionID)
		}
	}
	if len(ids) == 0 {
		return GradeResult{}, ErrEmptySubmission
	}
	meta, err := e.store.QuestionsByID(ctx, ids)
	if err != nil {
		return GradeResult{}, err
	}

	breakdown := NewBreakdown()
	correct, total := 0, 0
	for _, a := range answers {
		q, ok := meta[a.QuestionID]
		if !ok {
			continue
		}
		total++
		d := q.Difficulty
		if d == "" {
			d = Medium
		}
		choice := strings.ToLower(strings.TrimSpace(a.Option))
		hit := choice != "" && strings.EqualFold(choice, q.Correct)
		breakdown.Add(q.Topic, d, hit)
		if hit {
			correct++
		}
	}

	attempt, err := e.store.AppendAttempt(ctx, Attempt{
		StudentID: studentID,
		Score:     correct,
		Total:     total,
		Breakdown: breakdown,
		TakenAt:   time.Now(),
	})
	if err != nil {
		return GradeResult{}, err
	}

	percent := 0.0
	if total > 0 {
		percent = round2(float64(correct) / float64(total) * 100)
	}
	return GradeResult{
		StudentID: studentID,
		Score:     correct,
		Total:     total,
		Percent:   percent,
		Breakdown: breakdown,
		AttemptID: attempt.ID,
	}, nil
}

package quiz

import (
	"context"
	"time"
)

type TimePoint struct {
	TakenAt time.Time `json:"taken_at"`
	Percent *float64  `json:"percent"`
}

type AttemptSummary struct {
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Percent   *float64  `json:"percent"`
	Breakdown Breakdown `json:"breakdown"`
	TakenAt   time.Time `json:"taken_at"`
}

type DashboardResult struct {
	StudentID    int64              `json:"student_id"`
	LastScore    *float64           `json:"last_score"`
	AverageScore *float64           `json:"average_score"`
	TimeSeries   []TimePoint        `json:"time_series"`
	TopicSummary map[Topic]*float64 `json:"topic_summary"`
	Results      []AttemptSummary   `json:"raw_results"`
}

// Dashboard summarizes the student's full history: last and average percent,
// an oldest-first score time series, and a per-topic percentage rollup.
func (e *Engine) Dashboard(ctx context.Context, studentID int64) (DashboardResult, error) {
	if _, err := e.store.GetStudent(ctx, studentID); err != nil {
		return DashboardResult{}, err
	}
	attempts, err := e.store.AttemptHistory(ctx, studentID)
	if err != nil {
		return DashboardResult{}, err
	}

	out := DashboardResult{
		StudentID:    studentID,
		TimeSeries:   []TimePoint{},
		TopicSummary: make(map[Topic]*float64, len(Topics())),
		Results:      []AttemptSummary{},
	}
	for _, t := range Topics() {
		out.TopicSummary[t] = nil
	}
	if len(attempts) == 0 {
		return out, nil
	}

	topicAcc := map[Topic]Cell{}
	sum, counted := 0.0, 0
	for _, a := range attempts {
		var percent *float64
		if a.Total > 0 {
			p := round2(float64(a.Score) / float64(a.Total) * 100)
			percent = &p
			sum += p
			counted++
		}
		out.TimeSeries = append(out.TimeSeries, TimePoint{TakenAt: a.TakenAt, Percent: percent})
		out.Results = append(out.Results, AttemptSummary{
			Score: a.Score, Total: a.Total, Percent: percent,
			Breakdown: a.Breakdown, TakenAt: a.TakenAt,
		})
		for t, row := range a.Breakdown {
			if !ValidTopic(t) {
				continue
			}
			c := topicAcc[t]
			for _, cell := range row {
				c.Correct += cell.Correct
				c.Total += cell.Total
			}
			topicAcc[t] = c
		}
	}

	out.LastScore = out.Results[len(out.Results)-1].Percent
	if counted > 0 {
		avg := round2(sum / float64(counted))
		out.AverageScore = &avg
	}
	for _, t := range Topics() {
		if c := topicAcc[t]; c.Total > 0 {
			p := round2(float64(c.Correct) / float64(c.Total) * 100)
			out.TopicSummary[t] = &p
		}
	}
	return out, nil
}

package quiz

import (
	"context"
	"sort"
	"sync"
)

// memoryStore backs tests and single-process dev runs. Semantics match the
// SQL store: attempts append-only, recency scans newest-first with id as
// insertion-order tiebreak.
type memoryStore struct {
	mu        sync.RWMutex
	students  map[int64]Student
	questions map[int64]Question
	attempts  []Attempt
	settings  map[string]string

	nextStudent  int64
	nextQuestion int64
	nextAttempt  int64
}

func NewInMemoryStore() Store {
	return &memoryStore{
		students:  map[int64]Student{},
		questions: map[int64]Question{},
		settings:  map[string]string{},
	}
}

func (m *memoryStore) CreateStudent(_ context.Context, name, sapNo string) (Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sapNo != "" {
		for _, s := range m.students {
			if s.SAPNo == sapNo {
				return s, nil
			}
		}
	}
	m.nextStudent++
	s := Student{ID: m.nextStudent, Name: name, SAPNo: sapNo}
	m.students[s.ID] = s
	return s, nil
}

func (m *memoryStore) GetStudent(_ context.Context, id int64) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[id]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return s, nil
}

func (m *memoryStore) GetStudentBySAP(_ context.Context, sapNo string) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.SAPNo == sapNo {
			return s, nil
		}
	}
	return Student{}, ErrStudentNotFound
}

func (m *memoryStore) AddQuestion(_ context.Context, q Question) (Question, error) {
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextQuestion++
	q.ID = m.nextQuestion
	m.questions[q.ID] = q
	return q, nil
}

func (m *memoryStore) ListQuestions(_ context.Context) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) Pool(_ context.Context, topic Topic, difficulty Difficulty) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, q := range m.questions {
		if q.Topic != topic {
			continue
		}
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) QuestionsByID(_ context.Context, ids []int64) (map[int64]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]Question, len(ids))
	for _, id := range ids {
		if q, ok := m.questions[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func (m *memoryStore) AppendAttempt(_ context.Context, a Attempt) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAttempt++
	a.ID = m.nextAttempt
	m.attempts = append(m.attempts, a)
	return a, nil
}

func (m *memoryStore) RecentAttempts(_ context.Context, studentID int64, limit int) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TakenAt.Equal(out[j].TakenAt) {
			return out[i].TakenAt.After(out[j].TakenAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit < 0 {
		limit = 0
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) AttemptHistory(_ context.Context, studentID int64) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TakenAt.Equal(out[j].TakenAt) {
			return out[i].TakenAt.Before(out[j].TakenAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *memoryStore) PutSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *memoryStore) ListSettings(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLStore persists quiz state in the shared database. Works against both
// sqlite and postgres; queries use $n placeholders and RETURNING, which both
// drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateStudent(ctx context.Context, name, sapNo string) (Student, error) {
	if sapNo != "" {
		st, err := s.GetStudentBySAP(ctx, sapNo)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, ErrStudentNotFound) {
			return Student{}, err
		}
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO students (name, sap_no) VALUES ($1, $2) RETURNING id`,
		name, sapNo).Scan(&id)
	if err != nil {
		return Student{}, fmt.Errorf("create student: %w", err)
	}
	return Student{ID: id, Name: name, SAPNo: sapNo}, nil
}

func (s *SQLStore) GetStudent(ctx context.Context, id int64) (Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, sap_no FROM students WHERE id=$1`, id)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.SAPNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrStudentNotFound
		}
		return Student{}, err
	}
	return st, nil
}

func (s *SQLStore) GetStudentBySAP(ctx context.Context, sapNo string) (Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, sap_no FROM students WHERE sap_no=$1`, sapNo)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.SAPNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrStudentNotFound
		}
		return Student{}, err
	}
	return st, nil
}

func (s *SQLStore) AddQuestion(ctx context.Context, q Question) (Question, error) {
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO questions (topic, difficulty, prompt, option_a, option_b, option_c, option_d, correct_option)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		q.Topic, q.Difficulty, q.Prompt,
		q.Options["a"], q.Options["b"], q.Options["c"], q.Options["d"],
		strings.ToLower(q.Correct)).Scan(&id)
	if err != nil {
		return Question{}, fmt.Errorf("add question: %w", err)
	}
	q.ID = id
	return q, nil
}

const questionCols = `id, topic, difficulty, prompt, option_a, option_b, option_c, option_d, correct_option`

func scanQuestion(rs *sql.Rows) (Question, error) {
	var q Question
	var a, b, c, d string
	if err := rs.Scan(&q.ID, &q.Topic, &q.Difficulty, &q.Prompt, &a, &b, &c, &d, &q.Correct); err != nil {
		return Question{}, err
	}
	q.Options = map[string]string{"a": a, "b": b, "c": c, "d": d}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context) ([]Question, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT `+questionCols+` FROM questions ORDER BY topic, id`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	var out []Question
	for rs.Next() {
		q, err := scanQuestion(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rs.Err()
}

func (s *SQLStore) Pool(ctx context.Context, topic Topic, difficulty Difficulty) ([]Question, error) {
	var rs *sql.Rows
	var err error
	if difficulty == "" {
		rs, err = s.db.QueryContext(ctx,
			`SELECT `+questionCols+` FROM questions WHERE topic=$1 ORDER BY id`, topic)
	} else {
		rs, err = s.db.QueryContext(ctx,
			`SELECT `+questionCols+` FROM questions WHERE topic=$1 AND difficulty=$2 ORDER BY id`, topic, difficulty)
	}
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	var out []Question
	for rs.Next() {
		q, err := scanQuestion(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rs.Err()
}

func (s *SQLStore) QuestionsByID(ctx context.Context, ids []int64) (map[int64]Question, error) {
	out := make(map[int64]Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rs, err := s.db.QueryContext(ctx,
		`SELECT `+questionCols+` FROM questions WHERE id IN (`+strings.Join(ph, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	for rs.Next() {
		q, err := scanQuestion(rs)
		if err != nil {
			return nil, err
		}
		out[q.ID] = q
	}
	return out, rs.Err()
}

func (s *SQLStore) AppendAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	buf, err := json.Marshal(a.Breakdown)
	if err != nil {
		return Attempt{}, err
	}
	if a.TakenAt.IsZero() {
		a.TakenAt = time.Now()
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO attempts (student_id, score, total, breakdown_json, taken_at)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		a.StudentID, a.Score, a.Total, string(buf), a.TakenAt.Unix()).Scan(&a.ID)
	if err != nil {
		return Attempt{}, fmt.Errorf("append attempt: %w", err)
	}
	return a, nil
}

func (s *SQLStore) RecentAttempts(ctx context.Context, studentID int64, limit int) ([]Attempt, error) {
	// sqlite reads a negative LIMIT as unlimited while postgres rejects it;
	// clamp so both backends agree.
	if limit < 0 {
		limit = 0
	}
	// Newest first; the serial id breaks timestamp ties in insertion order.
	rs, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, score, total, breakdown_json, taken_at FROM attempts
		 WHERE student_id=$1 ORDER BY taken_at DESC, id DESC LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	return scanAttempts(rs)
}

func (s *SQLStore) AttemptHistory(ctx context.Context, studentID int64) ([]Attempt, error) {
	rs, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, score, total, breakdown_json, taken_at FROM attempts
		 WHERE student_id=$1 ORDER BY taken_at ASC, id ASC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	return scanAttempts(rs)
}

func scanAttempts(rs *sql.Rows) ([]Attempt, error) {
	var out []Attempt
	for rs.Next() {
		var a Attempt
		var bj string
		var ts int64
		if err := rs.Scan(&a.ID, &a.StudentID, &a.Score, &a.Total, &bj, &ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bj), &a.Breakdown); err != nil {
			a.Breakdown = NewBreakdown()
		}
		a.TakenAt = time.Unix(ts, 0)
		out = append(out, a)
	}
	return out, rs.Err()
}

func (s *SQLStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLStore) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (key, value) VALUES ($1,$2)
		 ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value`, key, value)
	return err
}

func (s *SQLStore) ListSettings(ctx context.Context) (map[string]string, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	out := map[string]string{}
	for rs.Next() {
		var k, v string
		if err := rs.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rs.Err()
}

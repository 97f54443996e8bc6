package quiz

import "context"

// Store is the persistence contract the engine runs against. Implementations
// must keep attempts append-only and return recency scans newest-first with
// insertion order as the tiebreak.
type Store interface {
	// CreateStudent upserts by SAP number and returns the existing record
	// when the number is already registered.
	CreateStudent(ctx context.Context, name, sapNo string) (Student, error)
	GetStudent(ctx context.Context, id int64) (Student, error)
	GetStudentBySAP(ctx context.Context, sapNo string) (Student, error)

	AddQuestion(ctx context.Context, q Question) (Question, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	// Pool returns the candidate questions for a topic. An empty difficulty
	// means any tier.
	Pool(ctx context.Context, topic Topic, difficulty Difficulty) ([]Question, error)
	// QuestionsByID resolves ids to full questions, answer key included.
	// Unknown ids are simply absent from the result.
	QuestionsByID(ctx context.Context, ids []int64) (map[int64]Question, error)

	AppendAttempt(ctx context.Context, a Attempt) (Attempt, error)
	// RecentAttempts returns up to limit attempts, newest first. A negative
	// limit reads as zero.
	RecentAttempts(ctx context.Context, studentID int64, limit int) ([]Attempt, error)
	// AttemptHistory returns every attempt, oldest first.
	AttemptHistory(ctx context.Context, studentID int64) ([]Attempt, error)

	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)
	PutSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
}

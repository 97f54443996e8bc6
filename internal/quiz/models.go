package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Topic is one of the fixed subject areas the bank is organized by.
type Topic string

const (
	TopicPython     Topic = "python"
	TopicSQL        Topic = "sql"
	TopicLogical    Topic = "logical"
	TopicQuant      Topic = "quant"
	TopicLanguage   Topic = "language"
	TopicStatistics Topic = "statistics"
)

// Topics returns the taxonomy in its canonical order. Allocation loops
// iterate this slice so selection is stable for a fixed random seed.
func Topics() []Topic {
	return []Topic{TopicPython, TopicSQL, TopicLogical, TopicQuant, TopicLanguage, TopicStatistics}
}

func ValidTopic(t Topic) bool {
	for _, k := range Topics() {
		if k == t {
			return true
		}
	}
	return false
}

// Difficulty is an ordinal tier: easy < medium < hard.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func ValidDifficulty(d Difficulty) bool {
	return d == Easy || d == Medium || d == Hard
}

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrQuestionInvalid   = errors.New("invalid question")
	ErrEmptySubmission   = errors.New("empty submission")
	ErrInvalidSettingKey = errors.New("invalid setting key")
)

// Student scopes all quiz state. Records are created on first interaction
// and never deleted here.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"student_name"`
	SAPNo string `json:"sap_no"`
}

// Question is a multiple-choice item. Immutable once created.
type Question struct {
	ID         int64             `json:"id"`
	Topic      Topic             `json:"topic"`
	Difficulty Difficulty        `json:"difficulty"`
	Prompt     string            `json:"question"`
	Options    map[string]string `json:"options"` // letter -> text, "a".."d"
	Correct    string            `json:"correct_option,omitempty"`
}

// OptionLetters is the set of labeled option slots, in order.
var OptionLetters = []string{"a", "b", "c", "d"}

// Validate checks the enum fields and that the correct letter names a
// populated option slot.
func (q Question) Validate() error {
	if !ValidTopic(q.Topic) {
		return fmt.Errorf("%w: unknown topic %q", ErrQuestionInvalid, q.Topic)
	}
	if !ValidDifficulty(q.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrQuestionInvalid, q.Difficulty)
	}
	if q.Prompt == "" {
		return fmt.Errorf("%w: empty prompt", ErrQuestionInvalid)
	}
	if q.Options[strings.ToLower(q.Correct)] == "" {
		return fmt.Errorf("%w: correct option %q names an empty slot", ErrQuestionInvalid, q.Correct)
	}
	return nil
}

// Cell is one correct/total counter in an attempt breakdown.
type Cell struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Breakdown maps (topic, difficulty) to counters. Attempts always carry the
// full grid, with zero cells where nothing was answered.
type Breakdown map[Topic]map[Difficulty]Cell

func NewBreakdown() Breakdown {
	b := make(Breakdown, len(Topics()))
	for _, t := range Topics() {
		b[t] = make(map[Difficulty]Cell, len(Difficulties()))
		for _, d := range Difficulties() {
			b[t][d] = Cell{}
		}
	}
	return b
}

// Add bumps one cell. Unknown topics are ignored so a breakdown read back
// from an older attempt cannot grow the grid.
func (b Breakdown) Add(t Topic, d Difficulty, correct bool) {
	row, ok := b[t]
	if !ok {
		return
	}
	c := row[d]
	c.Total++
	if correct {
		c.Correct++
	}
	row[d] = c
}

// Attempt is one graded quiz submission. Append-only: the ledger never
// updates or merges attempts.
type Attempt struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	TakenAt   time.Time `json:"taken_at"`
}

// Package bank loads multiple-choice questions into the question store from
// seed packs and admin bulk uploads (YAML, JSON, XLSX).
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/skillsync/skillsync/internal/quiz"
)

// Record is one incoming question in any of the supported formats.
type Record struct {
	Topic      string            `yaml:"topic" json:"topic"`
	Difficulty string            `yaml:"difficulty" json:"difficulty"`
	Prompt     string            `yaml:"question" json:"question"`
	Options    map[string]string `yaml:"options" json:"options"`
	Correct    string            `yaml:"correct_option" json:"correct_option"`
}

func (r Record) question() quiz.Question {
	return quiz.Question{
		Topic:      quiz.Topic(strings.ToLower(strings.TrimSpace(r.Topic))),
		Difficulty: quiz.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty))),
		Prompt:     r.Prompt,
		Options:    r.Options,
		Correct:    strings.ToLower(strings.TrimSpace(r.Correct)),
	}
}

type ImportResult struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
}

type Loader struct {
	store quiz.Store
}

func NewLoader(store quiz.Store) *Loader {
	return &Loader{store: store}
}

func (l *Loader) insert(ctx context.Context, recs []Record) (ImportResult, error) {
	res := ImportResult{BatchID: uuid.NewString()}
	for i, r := range recs {
		if _, err := l.store.AddQuestion(ctx, r.question()); err != nil {
			return res, fmt.Errorf("record %d: %w", i+1, err)
		}
		res.Inserted++
	}
	return res, nil
}

// LoadYAML imports a YAML list of records.
func (l *Loader) LoadYAML(ctx context.Context, r io.Reader) (ImportResult, error) {
	var recs []Record
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		return ImportResult{}, fmt.Errorf("parse yaml: %w", err)
	}
	return l.insert(ctx, recs)
}

// LoadJSON validates the payload against the question schema before touching
// the bank, so a malformed batch is rejected whole.
func (l *Loader) LoadJSON(ctx context.Context, data []byte) (ImportResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(questionSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return ImportResult{}, fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return ImportResult{}, fmt.Errorf("%w: %s", quiz.ErrQuestionInvalid, strings.Join(msgs, "; "))
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return ImportResult{}, err
	}
	return l.insert(ctx, recs)
}

// LoadXLSX imports the first sheet of a workbook. The header row must name
// topic, difficulty, question, option_a..option_d and correct_option.
func (l *Loader) LoadXLSX(ctx context.Context, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, err
	}
	if len(rows) < 2 {
		return ImportResult{}, errors.New("sheet has no data rows")
	}
	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"topic", "difficulty", "question", "correct_option"} {
		if _, ok := col[required]; !ok {
			return ImportResult{}, fmt.Errorf("missing column: %s", required)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var recs []Record
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		opts := make(map[string]string, len(quiz.OptionLetters))
		for _, letter := range quiz.OptionLetters {
			opts[letter] = cell(row, "option_"+letter)
		}
		recs = append(recs, Record{
			Topic:      cell(row, "topic"),
			Difficulty: cell(row, "difficulty"),
			Prompt:     cell(row, "question"),
			Options:    opts,
			Correct:    cell(row, "correct_option"),
		})
	}
	return l.insert(ctx, recs)
}

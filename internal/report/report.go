// Package report builds the per-question result rows a results table or CSV
// export is populated from.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/quiz"
)

// Row is one question's result in export shape. Index is 1-based.
type Row struct {
	Index         int    `json:"index"`
	QuestionID    string `json:"question_id"`
	Enunciate     string `json:"enunciate"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	URL           string `json:"url"`
	ChoiceA       string `json:"choice_A"`
	ChoiceB       string `json:"choice_B"`
	ChoiceC       string `json:"choice_C"`
	ChoiceD       string `json:"choice_D"`
}

// Summary totals a graded set. Failed counts questions that were ungradable
// or answered incorrectly, matching the end-of-quiz review list.
type Summary struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

// Build pairs questions with their verdicts into export rows. The two slices
// are aligned by index; a missing verdict yields an unanswered row.
func Build(questions []quiz.Question, verdicts []grading.Verdict) []Row {
	rows := make([]Row, 0, len(questions))
	for i, q := range questions {
		var v grading.Verdict
		if i < len(verdicts) {
			v = verdicts[i]
		}
		rows = append(rows, Row{
			Index:         i + 1,
			QuestionID:    q.QuestionID,
			Enunciate:     q.Text,
			UserAnswer:    strings.Join(v.ResponseLetters, ","),
			CorrectAnswer: strings.Join(v.AnswerLetters, ","),
			IsCorrect:     v.Correct,
			URL:           q.URL,
			ChoiceA:       q.Choices["A"],
			ChoiceB:       q.Choices["B"],
			ChoiceC:       q.Choices["C"],
			ChoiceD:       q.Choices["D"],
		})
	}
	return rows
}

// Summarize counts failed-or-ungradable questions from verdicts.
func Summarize(verdicts []grading.Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, v := range verdicts {
		if !v.Gradeable || !v.Correct {
			s.Failed++
		}
	}
	return s
}

var csvHeader = []string{
	"index", "question_id", "enunciate", "user_answer", "correct_answer",
	"is_correct", "url", "choice_A", "choice_B", "choice_C", "choice_D",
}

// WriteCSV renders rows as a header-delimited table.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Index),
			r.QuestionID,
			r.Enunciate,
			r.UserAnswer,
			r.CorrectAnswer,
			strconv.FormatBool(r.IsCorrect),
			r.URL,
			r.ChoiceA,
			r.ChoiceB,
			r.ChoiceC,
			r.ChoiceD,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

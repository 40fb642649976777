package bank

import (
	"errors"
	"strconv"

	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/quiz"
)

var (
	ErrBankNotFound    = errors.New("bank not found")
	ErrAttemptNotFound = errors.New("attempt not found")

	errAlreadySubmitted = errors.New("attempt already submitted")
)

// Store persists banks and attempts.
type Store interface {
	PutBank(b Bank) error
	// GetBank is student-safe: answer keys are stripped.
	GetBank(id string) (Bank, error)
	// GetBankFull returns the bank with answer keys, for grading and export.
	GetBankFull(id string) (Bank, error)
	ListBanks() ([]Summary, error)

	NewAttempt(bankID, userID string) (Attempt, error)
	SaveResponses(attemptID string, resp map[string]interface{}) (Attempt, error)
	Submit(attemptID string) (Attempt, error)
	GetAttempt(id string) (Attempt, error)
}

// gradeAttempt grades every question of b against a's responses, filling
// a.Verdicts and a.Score. A question with no recorded response is graded as
// an empty response.
func gradeAttempt(b Bank, a *Attempt) {
	verdicts := make([]grading.Verdict, 0, len(b.Questions))
	score := 0
	for i, q := range b.Questions {
		resp := a.Responses[strconv.Itoa(i)]
		v := grading.Grade(q, resp, false)
		if v.Correct {
			score++
		}
		verdicts = append(verdicts, v)
	}
	a.Verdicts = verdicts
	a.Score = score
}

// answerSourceFields are the raw answer-key fields the normalizer may have
// preserved verbatim in Extra. A student-safe view must drop them too, or the
// serialized question hands the key right back.
var answerSourceFields = []string{"answers_community", "correct_answer", "answer_ET", "answer"}

// stripAnswers copies the question slice (and each Extra map) before clearing
// keys so the stored bank keeps its answers for grading.
func stripAnswers(b Bank) Bank {
	qs := make([]quiz.Question, len(b.Questions))
	copy(qs, b.Questions)
	for i := range qs {
		qs[i].Answer = nil
		if len(qs[i].Extra) == 0 {
			continue
		}
		extra := make(map[string]any, len(qs[i].Extra))
		for k, v := range qs[i].Extra {
			extra[k] = v
		}
		for _, k := range answerSourceFields {
			delete(extra, k)
		}
		qs[i].Extra = extra
	}
	b.Questions = qs
	return b
}

// cloneAttempt copies the mutable parts of an attempt so callers never alias
// the stored Responses map or Verdicts slice.
func cloneAttempt(a Attempt) Attempt {
	if a.Responses != nil {
		resp := make(map[string]interface{}, len(a.Responses))
		for k, v := range a.Responses {
			resp[k] = v
		}
		a.Responses = resp
	}
	if a.Verdicts != nil {
		a.Verdicts = append([]grading.Verdict(nil), a.Verdicts...)
	}
	return a
}

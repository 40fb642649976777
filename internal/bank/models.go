package bank

import (
	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/quiz"
)

// Bank is a persisted set of normalized questions loaded from one upload or
// folder import.
type Bank struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Questions []quiz.Question `json:"questions"`
	CreatedAt int64           `json:"created_at,omitempty"`
}

// Summary is the listing view of a bank.
type Summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
	CreatedAt    int64  `json:"created_at,omitempty"`
}

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)

// Attempt is one user's pass over a bank. Responses are keyed by the decimal
// question index ("0", "1", ...); a value may be a letter list or free text.
// Verdicts are filled in at submit time, aligned with the bank's questions.
type Attempt struct {
	ID        string                 `json:"id"`
	BankID    string                 `json:"bank_id"`
	UserID    string                 `json:"user_id"`
	Status    string                 `json:"status"`
	Score     int                    `json:"score"` // questions answered correctly
	Responses map[string]interface{} `json:"responses"`
	Verdicts  []grading.Verdict      `json:"verdicts,omitempty"`
}

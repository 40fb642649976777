package bank

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/grading"
	"github.com/quizforge/quizforge/internal/quiz"
)

// SQLStore persists banks and attempts through database/sql; both the
// sqlite and postgres drivers accept the $n placeholder style used here.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutBank(b Bank) error {
	qj, err := json.Marshal(b.Questions)
	if err != nil {
		return err
	}
	created := b.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.Exec(`INSERT INTO banks (id,title,questions_json,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json`,
		b.ID, b.Title, string(qj), created)
	return err
}

func (s *SQLStore) GetBank(id string) (Bank, error) {
	b, err := s.GetBankFull(id)
	if err != nil {
		return Bank{}, err
	}
	return stripAnswers(b), nil
}

func (s *SQLStore) GetBankFull(id string) (Bank, error) {
	row := s.db.QueryRow(`SELECT id,title,questions_json,created_at FROM banks WHERE id=$1`, id)
	var b Bank
	var qjson string
	if err := row.Scan(&b.ID, &b.Title, &qjson, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bank{}, ErrBankNotFound
		}
		return Bank{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &b.Questions); err != nil {
		return Bank{}, err
	}
	return b, nil
}

func (s *SQLStore) ListBanks() ([]Summary, error) {
	rows, err := s.db.Query(`SELECT id,title,questions_json,created_at FROM banks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var sm Summary
		var qjson string
		if err := rows.Scan(&sm.ID, &sm.Title, &qjson, &sm.CreatedAt); err != nil {
			return nil, err
		}
		var qs []quiz.Question
		if err := json.Unmarshal([]byte(qjson), &qs); err == nil {
			sm.NumQuestions = len(qs)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) NewAttempt(bankID, userID string) (Attempt, error) {
	var exist int
	if err := s.db.QueryRow(`SELECT 1 FROM banks WHERE id=$1`, bankID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrBankNotFound
		}
		return Attempt{}, err
	}
	a := Attempt{
		ID:        uuid.NewString(),
		BankID:    bankID,
		UserID:    userID,
		Status:    StatusInProgress,
		Responses: map[string]interface{}{},
	}
	respJSON, _ := json.Marshal(a.Responses)
	_, err := s.db.Exec(`INSERT INTO attempts (id,bank_id,user_id,status,score,responses_json,verdicts_json,started_at)
		VALUES ($1,$2,$3,$4,0,$5,'',$6)`,
		a.ID, a.BankID, a.UserID, a.Status, string(respJSON), time.Now().Unix())
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

// SaveResponses merges resp into the stored map inside a transaction, so a
// partial save is never torn. Two concurrent saves of the same question key
// are last-writer-wins, matching the memory store.
func (s *SQLStore) SaveResponses(attemptID string, resp map[string]interface{}) (Attempt, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Attempt{}, err
	}
	defer tx.Rollback()

	var status, rjson string
	if err := tx.QueryRow(`SELECT status,responses_json FROM attempts WHERE id=$1`, attemptID).Scan(&status, &rjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	if status == StatusSubmitted {
		return Attempt{}, errAlreadySubmitted
	}
	merged := map[string]interface{}{}
	if rjson != "" {
		if err := json.Unmarshal([]byte(rjson), &merged); err != nil {
			return Attempt{}, err
		}
	}
	for k, v := range resp {
		merged[k] = v
	}
	buf, _ := json.Marshal(merged)
	if _, err := tx.Exec(`UPDATE attempts SET responses_json=$1 WHERE id=$2`, string(buf), attemptID); err != nil {
		return Attempt{}, err
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return s.GetAttempt(attemptID)
}

func (s *SQLStore) Submit(attemptID string) (Attempt, error) {
	a, err := s.GetAttempt(attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return a, nil
	}
	b, err := s.GetBankFull(a.BankID)
	if err != nil {
		return Attempt{}, err
	}
	gradeAttempt(b, &a)
	a.Status = StatusSubmitted

	vbuf, _ := json.Marshal(a.Verdicts)
	rbuf, _ := json.Marshal(a.Responses)
	_, err = s.db.Exec(`UPDATE attempts SET status=$1, score=$2, responses_json=$3, verdicts_json=$4, submitted_at=$5 WHERE id=$6`,
		a.Status, a.Score, string(rbuf), string(vbuf), time.Now().Unix(), attemptID)
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(id string) (Attempt, error) {
	row := s.db.QueryRow(`SELECT id,bank_id,user_id,status,score,responses_json,verdicts_json FROM attempts WHERE id=$1`, id)
	var a Attempt
	var rjson, vjson string
	if err := row.Scan(&a.ID, &a.BankID, &a.UserID, &a.Status, &a.Score, &rjson, &vjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	if rjson != "" {
		if err := json.Unmarshal([]byte(rjson), &a.Responses); err != nil {
			return Attempt{}, err
		}
	}
	if vjson != "" {
		var vs []grading.Verdict
		if err := json.Unmarshal([]byte(vjson), &vs); err == nil {
			a.Verdicts = vs
		}
	}
	return a, nil
}

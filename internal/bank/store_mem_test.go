package bank

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/quizforge/quizforge/internal/quiz"
)

func testBank(id string) Bank {
	return Bank{
		ID:    id,
		Title: "sample",
		Questions: []quiz.Question{
			{
				Text:    "one",
				Choices: map[string]string{"A": "x", "B": "y"},
				Answer:  []string{"A"},
			},
			{
				Text:    "two",
				Choices: map[string]string{"A": "x", "B": "y", "C": "z"},
				Answer:  []string{"B", "C"},
			},
		},
	}
}

func TestPutGetBankStripsAnswers(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.PutBank(testBank("b1")); err != nil {
		t.Fatal(err)
	}

	b, err := s.GetBank("b1")
	if err != nil {
		t.Fatal(err)
	}
	for i, q := range b.Questions {
		if q.Answer != nil {
			t.Fatalf("question %d leaked answer key %v", i, q.Answer)
		}
	}

	// Stripping must not corrupt the stored copy.
	full, err := s.GetBankFull("b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(full.Questions[0].Answer) != 1 || full.Questions[0].Answer[0] != "A" {
		t.Fatalf("stored bank lost its answer key: %v", full.Questions[0].Answer)
	}
}

func TestGetBankStripsAnswerSourceExtras(t *testing.T) {
	// Loader-normalized questions keep the raw answer fields in Extra; the
	// student-safe view must not serialize them, and re-normalizing the
	// served payload must not resurrect the key.
	s := NewInMemoryStore()
	q := quiz.Normalize(map[string]any{
		"question_text":     "pick one",
		"choice_A":          "yes",
		"choice_B":          "no",
		"correct_answer":    "A",
		"answers_community": []any{"most say A"},
		"answer_ET":         "a",
		"difficulty":        "easy",
	})
	if err := s.PutBank(Bank{ID: "b1", Title: "t", Questions: []quiz.Question{q}}); err != nil {
		t.Fatal(err)
	}

	b, err := s.GetBank("b1")
	if err != nil {
		t.Fatal(err)
	}
	buf, err := json.Marshal(b.Questions[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"correct_answer", "answers_community", "answer_ET"} {
		if strings.Contains(string(buf), `"`+field+`"`) {
			t.Fatalf("student-safe view leaked %s: %s", field, buf)
		}
	}
	var roundTrip quiz.Question
	if err := json.Unmarshal(buf, &roundTrip); err != nil {
		t.Fatal(err)
	}
	if len(roundTrip.Answer) != 0 {
		t.Fatalf("re-normalizing the served payload rebuilt the key: %v", roundTrip.Answer)
	}
	if roundTrip.Extra["difficulty"] != "easy" {
		t.Fatalf("non-answer extras must survive: %v", roundTrip.Extra)
	}

	full, err := s.GetBankFull("b1")
	if err != nil {
		t.Fatal(err)
	}
	if full.Questions[0].Extra["correct_answer"] != "A" {
		t.Fatalf("stored bank lost its extras: %v", full.Questions[0].Extra)
	}
}

func TestGetBankNotFound(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.GetBank("missing"); !errors.Is(err, ErrBankNotFound) {
		t.Fatalf("err = %v, want ErrBankNotFound", err)
	}
}

func TestListBanksNewestFirst(t *testing.T) {
	s := NewInMemoryStore()
	older := testBank("old")
	older.CreatedAt = 100
	newer := testBank("new")
	newer.CreatedAt = 200
	if err := s.PutBank(older); err != nil {
		t.Fatal(err)
	}
	if err := s.PutBank(newer); err != nil {
		t.Fatal(err)
	}
	out, err := s.ListBanks()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "new" || out[1].ID != "old" {
		t.Fatalf("list order = %+v", out)
	}
	if out[0].NumQuestions != 2 {
		t.Fatalf("NumQuestions = %d", out[0].NumQuestions)
	}
}

func TestAttemptLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.PutBank(testBank("b1")); err != nil {
		t.Fatal(err)
	}

	a, err := s.NewAttempt("b1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.Status != StatusInProgress || a.UserID != "alice" {
		t.Fatalf("new attempt = %+v", a)
	}

	// First question right, second wrong.
	if _, err := s.SaveResponses(a.ID, map[string]interface{}{"0": []interface{}{"a"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveResponses(a.ID, map[string]interface{}{"1": []interface{}{"b"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Submit(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusSubmitted {
		t.Fatalf("status = %q", got.Status)
	}
	if got.Score != 1 {
		t.Fatalf("score = %d, want 1", got.Score)
	}
	if len(got.Verdicts) != 2 || !got.Verdicts[0].Correct || got.Verdicts[1].Correct {
		t.Fatalf("verdicts = %+v", got.Verdicts)
	}

	// Submit is idempotent; responses are frozen afterwards.
	again, err := s.Submit(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Score != 1 {
		t.Fatalf("resubmit score = %d", again.Score)
	}
	if _, err := s.SaveResponses(a.ID, map[string]interface{}{"1": []interface{}{"b", "c"}}); err == nil {
		t.Fatalf("save after submit must fail")
	}

	fetched, err := s.GetAttempt(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != StatusSubmitted || fetched.Score != 1 {
		t.Fatalf("fetched attempt = %+v", fetched)
	}
}

func TestNewAttemptUnknownBank(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.NewAttempt("missing", "alice"); !errors.Is(err, ErrBankNotFound) {
		t.Fatalf("err = %v, want ErrBankNotFound", err)
	}
}

func TestSaveResponsesMerges(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.PutBank(testBank("b1")); err != nil {
		t.Fatal(err)
	}
	a, err := s.NewAttempt("b1", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveResponses(a.ID, map[string]interface{}{"0": []interface{}{"A"}}); err != nil {
		t.Fatal(err)
	}
	got, err := s.SaveResponses(a.ID, map[string]interface{}{"0": []interface{}{"B"}, "1": []interface{}{"C"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Responses) != 2 {
		t.Fatalf("responses = %+v", got.Responses)
	}
	if v := got.Responses["0"].([]interface{}); v[0] != "B" {
		t.Fatalf("later save must overwrite, got %v", v)
	}
}

func TestReturnedAttemptDoesNotAliasStore(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.PutBank(testBank("b1")); err != nil {
		t.Fatal(err)
	}
	a, err := s.NewAttempt("b1", "dave")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveResponses(a.ID, map[string]interface{}{"0": []interface{}{"A"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAttempt(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.Responses["0"] = []interface{}{"B"}
	got.Responses["1"] = []interface{}{"C"}

	again, err := s.GetAttempt(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Responses) != 1 {
		t.Fatalf("mutating a returned attempt changed the store: %v", again.Responses)
	}
	if v := again.Responses["0"].([]interface{}); v[0] != "A" {
		t.Fatalf("stored response changed: %v", v)
	}
}

func TestUnansweredQuestionGradedEmpty(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.PutBank(testBank("b1")); err != nil {
		t.Fatal(err)
	}
	a, err := s.NewAttempt("b1", "carol")
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Submit(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Score != 0 {
		t.Fatalf("score = %d, want 0", got.Score)
	}
	for i, v := range got.Verdicts {
		if v.Correct || len(v.ResponseLetters) != 0 {
			t.Fatalf("verdict %d = %+v", i, v)
		}
	}
}

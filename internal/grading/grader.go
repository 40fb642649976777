// Package grading compares user responses against a question's resolved
// answer key under set-equality semantics.
package grading

import (
	"strings"

	"github.com/quizforge/quizforge/internal/quiz"
)

// Verdict is the outcome of grading a single question response. It carries
// enough for both a pass/fail summary and a tabular export.
type Verdict struct {
	Gradeable       bool     `json:"gradeable"`
	Correct         bool     `json:"correct"`
	ResponseLetters []string `json:"response_letters"`
	AnswerLetters   []string `json:"answer_letters"`
}

// Grade evaluates a response against q. The response may be a []string (or
// []interface{}) of choice letters, which are uppercased per element, or a
// free-text string, from which strict-uppercase letters are extracted.
// skipped forces an empty response regardless of the payload.
//
// A question is gradeable only when it has both an answer key and a choices
// mapping. Correctness is unordered set equality, and an empty response is
// never correct, even against an empty answer key.
func Grade(q quiz.Question, response interface{}, skipped bool) Verdict {
	letters := responseLetters(response, skipped)
	v := Verdict{
		Gradeable:       q.Gradeable(),
		ResponseLetters: letters,
		AnswerLetters:   append([]string(nil), q.Answer...),
	}
	v.Correct = len(letters) > 0 && setEqual(toSet(letters), toSet(q.Answer))
	return v
}

func responseLetters(response interface{}, skipped bool) []string {
	if skipped {
		return nil
	}
	switch t := response.(type) {
	case []string:
		return upperAll(t)
	case []interface{}:
		return upperAll(toStringSlice(t))
	case string:
		return quiz.ExtractLetters(t)
	default:
		return nil
	}
}

func upperAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func toStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

package quiz

import "encoding/json"

// Canonical field names. Everything else in a raw record is carried in Extra.
const (
	fieldText       = "question_text"
	fieldChoices    = "choices"
	fieldAnswer     = "answer"
	fieldQuestionID = "question_id"
	fieldURL        = "url"
)

// Question is the canonical record every loader output is normalized into.
// Choices keys are single uppercase letters; Answer is an ordered,
// deduplicated list of single uppercase letters (empty means no authoritative
// answer is known). Fields the normalizer does not recognize are preserved
// verbatim in Extra.
type Question struct {
	Text       string            `json:"question_text"`
	Choices    map[string]string `json:"choices,omitempty"`
	Answer     []string          `json:"answer"`
	QuestionID string            `json:"question_id,omitempty"`
	URL        string            `json:"url,omitempty"`
	Extra      map[string]any    `json:"-"`
}

// Gradeable reports whether the question carries enough structure to be
// auto-graded: a known answer key and a choice set.
func (q Question) Gradeable() bool {
	return len(q.Answer) > 0 && len(q.Choices) > 0
}

// AsMap flattens the question back into the open-record form the normalizer
// consumes. Canonical fields win over same-named extras.
func (q Question) AsMap() map[string]any {
	m := make(map[string]any, len(q.Extra)+5)
	for k, v := range q.Extra {
		m[k] = v
	}
	m[fieldText] = q.Text
	m[fieldAnswer] = append([]string(nil), q.Answer...)
	if len(q.Choices) > 0 {
		ch := make(map[string]string, len(q.Choices))
		for k, v := range q.Choices {
			ch[k] = v
		}
		m[fieldChoices] = ch
	}
	if q.QuestionID != "" {
		m[fieldQuestionID] = q.QuestionID
	}
	if q.URL != "" {
		m[fieldURL] = q.URL
	}
	return m
}

// MarshalJSON emits the flattened open-record form so extras round-trip
// through storage.
func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.AsMap())
}

// UnmarshalJSON re-normalizes the stored record. Normalize is idempotent, so
// decoding a previously marshaled Question reproduces it.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Normalize(raw)
	return nil
}

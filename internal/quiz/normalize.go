package quiz

import (
	"fmt"
	"strings"
)

// DefaultMaxChoices bounds how many choice_A.. columns the normalizer scans
// for when a record has no choices mapping of its own.
const DefaultMaxChoices = 4

type Option func(*options)

type options struct {
	maxChoices int
}

// WithMaxChoices overrides the choice_A..choice_N synthesis bound.
func WithMaxChoices(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxChoices = n
		}
	}
}

// Normalize maps one raw record, from either loader, into the canonical
// Question shape. It is total: malformed or partial records produce a
// minimally populated Question rather than an error.
//
// The answer key is resolved from the first source that yields at least one
// candidate, in this order: answers_community, correct_answer, answer_ET,
// answer. Sources are never merged. All candidates funnel through a single
// letter-normalization pass, so the final Answer is always an ordered set of
// single uppercase letters regardless of the source format.
func Normalize(raw map[string]any, opts ...Option) Question {
	o := options{maxChoices: DefaultMaxChoices}
	for _, fn := range opts {
		fn(&o)
	}

	q := Question{
		Text:       textField(raw, fieldText, "enunciate", "text"),
		QuestionID: stringField(raw[fieldQuestionID]),
		URL:        stringField(raw[fieldURL]),
		Extra:      map[string]any{},
	}

	candidates := communityCandidates(raw["answers_community"])
	if len(candidates) == 0 {
		candidates = splitCandidates(raw["correct_answer"])
	}
	if len(candidates) == 0 {
		candidates = splitCandidates(raw["answer_ET"])
	}
	if len(candidates) == 0 {
		candidates = listCandidates(raw[fieldAnswer])
	}
	q.Answer = normalizeAnswers(candidates)

	q.Choices = normalizeChoices(raw[fieldChoices])
	if len(q.Choices) == 0 {
		q.Choices = synthesizeChoices(raw, o.maxChoices)
	}

	for k, v := range raw {
		switch k {
		case fieldText, fieldChoices, fieldAnswer, fieldQuestionID, fieldURL:
		default:
			q.Extra[k] = v
		}
	}
	return q
}

// textField returns the first key whose value renders to a non-empty string.
func textField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// communityCandidates extracts answer letters from a list of free-text
// community answers. Matching is strict-uppercase: lowercase noise in the
// free text is intentionally ignored.
func communityCandidates(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if ss, isStrs := v.([]string); isStrs {
			items = make([]any, len(ss))
			for i, s := range ss {
				items[i] = s
			}
		} else {
			return nil
		}
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, ExtractLetters(s)...)
		}
	}
	return out
}

// splitCandidates parses a structured answer field: a comma-separated string
// such as "A, b ,C", or a list of such strings. Parts are trimmed and
// uppercased, so lowercase letters are tolerated here, unlike in free text.
func splitCandidates(v any) []string {
	switch t := v.(type) {
	case string:
		return splitLetters(t)
	case []string:
		var out []string
		for _, s := range t {
			out = append(out, splitLetters(s)...)
		}
		return out
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, splitLetters(s)...)
			}
		}
		return out
	default:
		return nil
	}
}

// listCandidates admits a pre-existing answer field only when it is already a
// proper list.
func listCandidates(v any) []string {
	switch v.(type) {
	case []string, []any:
		return splitCandidates(v)
	default:
		return nil
	}
}

func splitLetters(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeAnswers reduces every candidate to its first A-Z rune (tolerating
// forms like "A)" or "A. some text"), drops candidates with no letter, and
// deduplicates preserving first-seen order.
func normalizeAnswers(candidates []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range candidates {
		upper := strings.ToUpper(strings.TrimSpace(c))
		letter := ""
		for _, r := range upper {
			if r >= 'A' && r <= 'Z' {
				letter = string(r)
				break
			}
		}
		if letter == "" || seen[letter] {
			continue
		}
		seen[letter] = true
		out = append(out, letter)
	}
	return out
}

// normalizeChoices accepts an existing choices mapping and conforms its keys:
// trim, uppercase, truncate to the first character. Reapplying the rule is a
// no-op, which also guards the synthesized path.
func normalizeChoices(v any) map[string]string {
	var src map[string]any
	switch t := v.(type) {
	case map[string]any:
		src = t
	case map[string]string:
		src = make(map[string]any, len(t))
		for k, val := range t {
			src[k] = val
		}
	default:
		return nil
	}
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, val := range src {
		out[normalizeChoiceKey(k)] = stringField(val)
	}
	return out
}

func normalizeChoiceKey(k string) string {
	kk := strings.ToUpper(strings.TrimSpace(k))
	if r := []rune(kk); len(r) > 1 {
		return string(r[0])
	}
	return kk
}

// synthesizeChoices scans choice_A..choice_N columns when a record has no
// choices mapping. Only cells with non-empty trimmed content are included.
func synthesizeChoices(raw map[string]any, maxChoices int) map[string]string {
	out := map[string]string{}
	for i := 0; i < maxChoices && i < 26; i++ {
		letter := string(rune('A' + i))
		v, ok := raw["choice_"+letter]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr {
			if t := strings.TrimSpace(s); t != "" {
				out[letter] = t
			}
			continue
		}
		out[letter] = fmt.Sprint(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

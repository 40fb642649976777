package loader

// findQuestions searches a decoded JSON value for the first list of
// question-shaped records, in pre-order with siblings visited in document
// order:
//
//   - an object with a "questions" list returns that list immediately;
//   - an object with a "pageProps" object holding a "questions" list returns
//     the nested list;
//   - a non-empty list whose first element is an object carrying
//     "question_text" or "choices" is treated as already being the question
//     list;
//   - anything else recurses, returning the first non-empty hit.
//
// This is a best-effort heuristic, not a schema detector: on adversarial
// nesting an unrelated "questions" key visited earlier wins, and that
// priority order is deliberate.
func findQuestions(v value) ([]value, bool) {
	if v.isObject() {
		if qs, ok := v.field("questions"); ok && qs.isArray() {
			return qs.arr, true
		}
		if pp, ok := v.field("pageProps"); ok && pp.isObject() {
			if qs, ok := pp.field("questions"); ok && qs.isArray() {
				return qs.arr, true
			}
		}
		for _, m := range v.members {
			if res, ok := findQuestions(m.val); ok && len(res) > 0 {
				return res, true
			}
		}
		return nil, false
	}
	if v.isArray() {
		if len(v.arr) > 0 && v.arr[0].isObject() {
			if _, ok := v.arr[0].field("question_text"); ok {
				return v.arr, true
			}
			if _, ok := v.arr[0].field("choices"); ok {
				return v.arr, true
			}
		}
		for _, e := range v.arr {
			if res, ok := findQuestions(e); ok && len(res) > 0 {
				return res, true
			}
		}
	}
	return nil, false
}

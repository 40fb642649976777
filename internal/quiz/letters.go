package quiz

import "regexp"

// letterToken matches a single uppercase Latin letter standing alone as a
// word: "B" in "I think B is right", but not the "B" in "Bold".
var letterToken = regexp.MustCompile(`\b[A-Z]\b`)

// ExtractLetters returns every whole-word single uppercase letter in s, in
// order of appearance. The standalone pronoun "I" is dropped: on English
// free text it is almost never an answer letter, only noise. Lowercase
// letters never match; callers that want case-insensitive behavior uppercase
// their input first. Returns nil when nothing matches.
func ExtractLetters(s string) []string {
	var out []string
	for _, tok := range letterToken.FindAllString(s, -1) {
		if tok == "I" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

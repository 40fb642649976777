package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// csvRecords parses a header-delimited table into raw records, one per data
// row. Header names and cell values are trimmed. The correct_answer column,
// when present, is rewritten into an uppercase letter list at load time so
// CSV and JSON records agree on that field's shape before normalization.
//
// Failure isolation is file-level when the content is not valid UTF-8 or no
// header row can be read, and row-level after that: a malformed row the
// reader can step past never aborts its siblings.
func csvRecords(content []byte) []map[string]any {
	if !utf8.Valid(content) {
		return nil
	}
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1 // ragged rows are tolerated
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []map[string]any
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		rec := make(map[string]any, len(header)+1)
		for i, h := range header {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		rec["correct_answer"] = parseCorrectAnswers(rec["correct_answer"])
		out = append(out, rec)
	}
	return out
}

// parseCorrectAnswers splits a comma-separated correct_answer cell into a
// clean uppercase list. Unlike free-text letter extraction this path
// tolerates lowercase input.
func parseCorrectAnswers(v any) []string {
	s, ok := v.(string)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadCSVFiles(files []File) []map[string]any {
	var out []map[string]any
	for _, f := range files {
		out = append(out, csvRecords(f.Content)...)
	}
	return out
}

// loadCSVFolder walks root recursively and flattens every .csv file.
// Unreadable files are skipped.
func loadCSVFolder(root string) []map[string]any {
	var out []map[string]any
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".csv" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		out = append(out, csvRecords(content)...)
		return nil
	})
	return out
}

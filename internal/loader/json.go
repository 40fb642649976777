package loader

import (
	"os"
	"path/filepath"
)

// jsonRecords decodes one JSON document and flattens it into raw records:
// the located question list if any, else a top-level list's elements, else
// the whole top-level object as a single record. Returns nil when the
// content is not JSON or holds nothing question-shaped; a bad file never
// aborts a batch.
func jsonRecords(content []byte) []map[string]any {
	v, err := parseValue(content)
	if err != nil {
		return nil
	}
	if found, ok := findQuestions(v); ok && len(found) > 0 {
		return objectRecords(found)
	}
	if v.isArray() {
		return objectRecords(v.arr)
	}
	if v.isObject() {
		if rec, ok := v.toAny().(map[string]any); ok {
			return []map[string]any{rec}
		}
	}
	return nil
}

// objectRecords keeps the object-shaped elements; stray scalars inside a
// question list produce no record.
func objectRecords(elems []value) []map[string]any {
	var out []map[string]any
	for _, e := range elems {
		if !e.isObject() {
			continue
		}
		if rec, ok := e.toAny().(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

func loadJSONFiles(files []File) []map[string]any {
	var out []map[string]any
	for _, f := range files {
		out = append(out, jsonRecords(f.Content)...)
	}
	return out
}

// loadJSONFolder walks root recursively and flattens every .json file.
// Unreadable files are skipped.
func loadJSONFolder(root string) []map[string]any {
	var out []map[string]any
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		out = append(out, jsonRecords(content)...)
		return nil
	})
	return out
}

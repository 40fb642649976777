// Package loader turns heterogeneous quiz files (JSON and CSV with
// inconsistent schemas) into canonical questions. It is the single entry
// point the serving layer consumes: classify, parse per format, normalize.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/quizforge/quizforge/internal/quiz"
)

// File is an in-memory file to load, as received from an upload.
type File struct {
	Name    string
	Content []byte
}

// splitByFormat partitions files into a JSON group and a CSV group.
// Classification order: .json extension, .csv extension, then a JSON content
// sniff for files with no recognized extension. Files that match nothing are
// dropped silently rather than guessed at.
func splitByFormat(files []File) (jsonFiles, csvFiles []File) {
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".json":
			jsonFiles = append(jsonFiles, f)
		case ".csv":
			csvFiles = append(csvFiles, f)
		default:
			if utf8.Valid(f.Content) && json.Valid(f.Content) {
				jsonFiles = append(jsonFiles, f)
			}
		}
	}
	return jsonFiles, csvFiles
}

// LoadRawFromFiles routes each file to its format loader and concatenates
// the raw, pre-normalization records: JSON-group records first, then the CSV
// group, preserving file order within each group.
func LoadRawFromFiles(files []File) []map[string]any {
	jsonFiles, csvFiles := splitByFormat(files)
	out := loadJSONFiles(jsonFiles)
	out = append(out, loadCSVFiles(csvFiles)...)
	return out
}

// LoadFromFiles is LoadRawFromFiles plus normalization of every record.
func LoadFromFiles(files []File, opts ...quiz.Option) []quiz.Question {
	return normalizeAll(LoadRawFromFiles(files), opts...)
}

// LoadRawFromFolder recursively loads every .json and .csv file under path.
// A path that does not exist or is not a directory is a caller error,
// distinct from an existing folder that simply yields zero records.
func LoadRawFromFolder(path string) ([]map[string]any, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("quiz folder: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("quiz folder: %s is not a directory", path)
	}
	out := loadJSONFolder(path)
	out = append(out, loadCSVFolder(path)...)
	return out, nil
}

// LoadFromFolder is LoadRawFromFolder plus normalization of every record.
func LoadFromFolder(path string, opts ...quiz.Option) ([]quiz.Question, error) {
	raw, err := LoadRawFromFolder(path)
	if err != nil {
		return nil, err
	}
	return normalizeAll(raw, opts...), nil
}

func normalizeAll(raw []map[string]any, opts ...quiz.Option) []quiz.Question {
	if len(raw) == 0 {
		return nil
	}
	out := make([]quiz.Question, 0, len(raw))
	for _, rec := range raw {
		out = append(out, quiz.Normalize(rec, opts...))
	}
	return out
}

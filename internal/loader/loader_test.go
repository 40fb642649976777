package loader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitByFormat(t *testing.T) {
	files := []File{
		{Name: "a.json", Content: []byte(`{}`)},
		{Name: "B.CSV", Content: []byte("x\n1\n")},
		{Name: "noext-json", Content: []byte(`{"questions":[]}`)},
		{Name: "noext-junk", Content: []byte("definitely not json")},
		{Name: "quiz.txt", Content: []byte(`{"a":1}`)},
	}
	jsonFiles, csvFiles := splitByFormat(files)
	// .json by extension, noext-json and quiz.txt by content sniff.
	if len(jsonFiles) != 3 {
		t.Fatalf("json group = %d, want 3", len(jsonFiles))
	}
	if len(csvFiles) != 1 {
		t.Fatalf("csv group = %d, want 1", len(csvFiles))
	}
}

func TestLoadFromFilesEndToEnd(t *testing.T) {
	files := []File{
		{Name: "web.json", Content: []byte(`{"pageProps":{"questions":[
			{"question_text":"json q","choices":{"a":"one","b":"two"},"answers_community":["B is the right one"]}
		]}}`)},
		{Name: "bank.csv", Content: []byte("enunciate,choice_A,choice_B,correct_answer,question_id\ncsv q,uno,dos,\"a, b\",c-1\n")},
		{Name: "skipped.dat", Content: []byte("binary-ish junk")},
	}
	qs := LoadFromFiles(files)
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}

	jq := qs[0]
	if jq.Text != "json q" {
		t.Fatalf("json question text = %q", jq.Text)
	}
	if !reflect.DeepEqual(jq.Answer, []string{"B"}) {
		t.Fatalf("json answer = %v", jq.Answer)
	}
	if !reflect.DeepEqual(jq.Choices, map[string]string{"A": "one", "B": "two"}) {
		t.Fatalf("json choices = %v", jq.Choices)
	}

	cq := qs[1]
	if cq.Text != "csv q" || cq.QuestionID != "c-1" {
		t.Fatalf("csv question mangled: %+v", cq)
	}
	if !reflect.DeepEqual(cq.Answer, []string{"A", "B"}) {
		t.Fatalf("csv answer = %v", cq.Answer)
	}
}

func TestLoadFromFilesEmpty(t *testing.T) {
	if qs := LoadFromFiles(nil); len(qs) != 0 {
		t.Fatalf("no files produced %d questions", len(qs))
	}
}

func TestLoadFromFolder(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(dir, "top.json"), `{"questions":[{"question_text":"q1"}]}`)
	write(filepath.Join(sub, "deep.json"), `[{"question_text":"q2"},{"question_text":"q3"}]`)
	write(filepath.Join(sub, "rows.csv"), "question_text,correct_answer\nq4,D\n")
	write(filepath.Join(dir, "broken.json"), `{"questions":[`)
	write(filepath.Join(dir, "notes.txt"), "ignored entirely")

	qs, err := LoadFromFolder(dir)
	if err != nil {
		t.Fatalf("LoadFromFolder: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("got %d questions, want 4", len(qs))
	}
	// JSON group first, then CSV.
	if qs[len(qs)-1].Text != "q4" {
		t.Fatalf("csv records must come after json records: %+v", qs[len(qs)-1])
	}
}

func TestLoadFromFolderMissingPath(t *testing.T) {
	if _, err := LoadFromFolder(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("missing folder must be a distinct error")
	}
}

func TestLoadFromFolderNotADirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.json")
	if err := os.WriteFile(f, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFolder(f); err == nil {
		t.Fatalf("file path must be a distinct error")
	}
}

func TestLoadFromFolderEmptyIsNotAnError(t *testing.T) {
	qs, err := LoadFromFolder(t.TempDir())
	if err != nil {
		t.Fatalf("empty folder must not error: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("got %d questions from empty folder", len(qs))
	}
}

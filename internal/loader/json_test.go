package loader

import "testing"

func TestJSONRecordsLocated(t *testing.T) {
	recs := jsonRecords([]byte(`{"pageProps":{"questions":[{"question_text":"q1"},{"question_text":"q2"}]}}`))
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0]["question_text"] != "q1" {
		t.Fatalf("record content: %v", recs[0])
	}
}

func TestJSONRecordsTopLevelList(t *testing.T) {
	// Not question-shaped, so the locator misses, but a top-level list is
	// still flattened element by element.
	recs := jsonRecords([]byte(`[{"foo":1},{"foo":2}]`))
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
}

func TestJSONRecordsSingleObject(t *testing.T) {
	recs := jsonRecords([]byte(`{"question_text":"only one","choices":{"A":"x"}}`))
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}
}

func TestJSONRecordsScalarAndGarbage(t *testing.T) {
	for _, doc := range []string{`42`, `"str"`, `not json at all`, `{"trailing": 1} extra`, ``} {
		if recs := jsonRecords([]byte(doc)); len(recs) != 0 {
			t.Fatalf("%q produced %d records", doc, len(recs))
		}
	}
}

func TestJSONRecordsSkipsScalarListElements(t *testing.T) {
	recs := jsonRecords([]byte(`{"questions":[{"question_text":"q"},"stray",3]}`))
	if len(recs) != 1 {
		t.Fatalf("got %d records, want only the object-shaped one", len(recs))
	}
}

func TestLoadJSONFilesBadFileIsolated(t *testing.T) {
	files := []File{
		{Name: "good.json", Content: []byte(`{"questions":[{"question_text":"q1"}]}`)},
		{Name: "broken.json", Content: []byte(`{"questions":[`)},
		{Name: "also-good.json", Content: []byte(`[{"question_text":"q2"}]`)},
	}
	recs := loadJSONFiles(files)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (bad file skipped, batch continues)", len(recs))
	}
}

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/bank"
	"github.com/quizforge/quizforge/internal/loader"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/storage"
)

type bankCreatedResp struct {
	BankID       string `json:"bank_id"`
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
}

// UploadBankHandler ingests a multipart upload of quiz files (field "files",
// repeatable), routes them through the loader and persists the normalized
// questions as a new bank. Unparseable files are skipped, never fatal; an
// upload yielding zero questions is rejected so the caller can tell "bad
// content" apart from "no files selected" (which is a 400).
func UploadBankHandler(store bank.Store, blobs *storage.FSStore, maxChoices int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, "multipart form required", http.StatusBadRequest)
			return
		}
		parts := r.MultipartForm.File["files"]
		if len(parts) == 0 {
			http.Error(w, "files required", http.StatusBadRequest)
			return
		}

		files := make([]loader.File, 0, len(parts))
		for _, fh := range parts {
			f, err := fh.Open()
			if err != nil {
				continue // unreadable part, keep the batch going
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				continue
			}
			files = append(files, loader.File{Name: fh.Filename, Content: content})
		}

		questions := loader.LoadFromFiles(files, quiz.WithMaxChoices(maxChoices))
		if len(questions) == 0 {
			http.Error(w, "no questions found in upload", http.StatusUnprocessableEntity)
			return
		}

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			title = "Untitled quiz"
		}
		b := bank.Bank{
			ID:        uuid.NewString(),
			Title:     title,
			Questions: questions,
			CreatedAt: time.Now().Unix(),
		}
		if err := store.PutBank(b); err != nil {
			http.Error(w, "save bank: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if blobs != nil {
			for _, f := range files {
				_, _ = blobs.Put(b.ID, f.Name, bytes.NewReader(f.Content))
			}
		}
		writeJSON(w, http.StatusCreated, bankCreatedResp{BankID: b.ID, Title: b.Title, NumQuestions: len(b.Questions)})
	}
}

// ImportFolderHandler loads every .json and .csv file under a local folder
// into a new bank. Offline-mode only; the gateway does not mount it online.
//
// POST /banks/import-folder  { "path": "...", "title": "..." }
func ImportFolderHandler(store bank.Store, maxChoices int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path  string `json:"path"`
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Path) == "" {
			http.Error(w, "path required", http.StatusBadRequest)
			return
		}
		questions, err := loader.LoadFromFolder(req.Path, quiz.WithMaxChoices(maxChoices))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(questions) == 0 {
			http.Error(w, "folder contains no parseable questions", http.StatusUnprocessableEntity)
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = req.Path
		}
		b := bank.Bank{
			ID:        uuid.NewString(),
			Title:     title,
			Questions: questions,
			CreatedAt: time.Now().Unix(),
		}
		if err := store.PutBank(b); err != nil {
			http.Error(w, "save bank: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, bankCreatedResp{BankID: b.ID, Title: b.Title, NumQuestions: len(b.Questions)})
	}
}

func ListBanksHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banks, err := store.ListBanks()
		if err != nil {
			http.Error(w, "list banks: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if banks == nil {
			banks = []bank.Summary{}
		}
		writeJSON(w, http.StatusOK, banks)
	}
}

// GetBankHandler serves a bank without answer keys. ?full=1 returns answer
// keys too and requires the bank:view-full permission, enforced at the route.
func GetBankHandler(store bank.Store, full bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "bankID"))
		if id == "" {
			http.Error(w, "bankID required", http.StatusBadRequest)
			return
		}
		get := store.GetBank
		if full {
			get = store.GetBankFull
		}
		b, err := get(id)
		if err != nil {
			if errors.Is(err, bank.ErrBankNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, "get bank: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

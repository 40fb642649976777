// Package storage archives the original uploaded quiz files so a bank can be
// re-ingested or inspected after normalization.
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

// Put writes one source file under banks/<bankID>/<name>.
func (s *FSStore) Put(bankID, name string, r io.Reader) (string, error) {
	if bankID == "" || name == "" {
		return "", errors.New("empty key")
	}
	key := filepath.Join("banks", filepath.Clean(bankID), filepath.Base(name))
	dst := filepath.Join(s.base, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.base, filepath.Clean(key)))
}

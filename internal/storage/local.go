package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps files in a single upload directory on disk.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}

	err = os.MkdirAll(abs, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{
		root:    abs,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// path resolves key inside the upload directory. Keys that escape it are rejected.
func (s *LocalStorage) path(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	full := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return full, nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, file io.Reader) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(out, file)
	closeErr := out.Close()
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(filepath.ToSlash(key), "/")
}

// Exists reports whether a file is stored under key.
func (s *LocalStorage) Exists(key string) bool {
	full, err := s.path(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

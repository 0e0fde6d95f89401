package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inverse-cramer/internal/domain"
)

// RecommendationsFile is the name of the post list inside the data directory.
const RecommendationsFile = "cramer_recommendations.json"

// FileStore keeps everything as indented JSON files under one directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// JoinedFile is the per-ticker file name, e.g. aapl_data.json.
func JoinedFile(symbol string) string {
	return strings.ToLower(symbol) + "_data.json"
}

func (s *FileStore) SaveRecommendations(_ context.Context, posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}
	return s.write(RecommendationsFile, posts)
}

func (s *FileStore) LoadRecommendations(_ context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := s.read(RecommendationsFile, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *FileStore) SaveJoined(_ context.Context, symbol string, record *domain.JoinedRecord) error {
	if !domain.ValidSymbol(symbol) {
		return fmt.Errorf("invalid symbol %q", symbol)
	}
	return s.write(JoinedFile(symbol), record)
}

func (s *FileStore) LoadJoined(_ context.Context, symbol string) (*domain.JoinedRecord, error) {
	if !domain.ValidSymbol(symbol) {
		return nil, ErrNotFound
	}
	var record domain.JoinedRecord
	if err := s.read(JoinedFile(symbol), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *FileStore) Close() error { return nil }

// write replaces name atomically so readers never see a half-written file.
func (s *FileStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

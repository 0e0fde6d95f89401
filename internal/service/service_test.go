package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeRedis struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

type memoryStore struct {
	mu       sync.Mutex
	posts    []domain.Post
	hasPosts bool
	loadErr  error
	saveErr  error
	joined   map[string]*domain.JoinedRecord
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{joined: make(map[string]*domain.JoinedRecord)}
}

func (m *memoryStore) SaveRecommendations(_ context.Context, posts []domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.posts = posts
	m.hasPosts = true
	return nil
}

func (m *memoryStore) LoadRecommendations(context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.hasPosts {
		return nil, repository.ErrNotFound
	}
	return m.posts, nil
}

func (m *memoryStore) SaveJoined(_ context.Context, symbol string, record *domain.JoinedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.joined[symbol] = record
	return nil
}

func (m *memoryStore) LoadJoined(_ context.Context, symbol string) (*domain.JoinedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.joined[symbol]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

type stubSearcher struct {
	responses map[string]string
	errs      map[string]error
	queries   []domain.SearchQuery
	onSearch  func(query string)
}

func (s *stubSearcher) Search(_ context.Context, q domain.SearchQuery) ([]byte, error) {
	s.queries = append(s.queries, q)
	if s.onSearch != nil {
		s.onSearch(q.Query)
	}
	if err := s.errs[q.Query]; err != nil {
		return nil, err
	}
	if body, ok := s.responses[q.Query]; ok {
		return []byte(body), nil
	}
	return []byte(`{}`), nil
}

type stubFetcher struct {
	charts map[string]string
	calls  []domain.PriceQuery
}

func (s *stubFetcher) FetchChart(_ context.Context, q domain.PriceQuery) ([]byte, error) {
	s.calls = append(s.calls, q)
	if body, ok := s.charts[q.Symbol]; ok {
		return []byte(body), nil
	}
	return nil, errors.New("upstream 404")
}

func timelineWith(texts ...string) string {
	items := ""
	for i, text := range texts {
		if i > 0 {
			items += ","
		}
		items += `{"item":{"itemContent":{"tweet_results":{"result":{
			"core":{"user_results":{"result":{"legacy":{"name":"Jim Cramer","screen_name":"jimcramer"}}}},
			"legacy":{"full_text":` + quote(text) + `,"created_at":"Mon Jan 01 15:00:00 +0000 2024","id_str":"` + strconv.Itoa(i+1) + `"}
		}}}}}`
	}
	return `{"result":{"timeline":{"instructions":[{"entries":[{"content":{"items":[` + items + `]}}]}]}}}`
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inverse-cramer/internal/domain"
)

func samplePosts() []domain.Post {
	return []domain.Post{
		{
			User:         domain.PostUser{Name: "Jim Cramer", ScreenName: "jimcramer"},
			Text:         "Buy $AAPL",
			CreatedAt:    "Wed Oct 10 20:19:24 +0000 2018",
			ID:           "1",
			StockSymbols: []string{"AAPL"},
			Sentiment:    domain.SentimentBuy,
		},
		{
			User:         domain.PostUser{Name: "Jim Cramer", ScreenName: "jimcramer"},
			Text:         "Sell $TSLA",
			ID:           "2",
			StockSymbols: []string{"TSLA"},
			Sentiment:    domain.SentimentSell,
		},
	}
}

func sampleJoined() *domain.JoinedRecord {
	symbol := "AAPL"
	return &domain.JoinedRecord{
		StockData: &domain.PriceSeries{
			Meta:   domain.SeriesMeta{Symbol: &symbol},
			Prices: []domain.PricePoint{{Date: "2024-01-01", Timestamp: 1704067200, Close: 185.5}},
		},
		CramerRecommendations: []domain.RecommendationEntry{{Ticker: "AAPL", TweetID: "1", Recommendation: domain.SentimentBuy}},
	}
}

func TestFileStoreRecommendationsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.LoadRecommendations(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	if err := store.SaveRecommendations(ctx, samplePosts()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, RecommendationsFile))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "\n  {\n    \"user\": {") {
		t.Fatalf("expected two-space indented array, got:\n%s", data)
	}
	for _, key := range []string{`"stock_symbols"`, `"sentiment": "buy"`, `"screen_name": "jimcramer"`, `"id": "1"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in output", key)
		}
	}

	posts, err := store.LoadRecommendations(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "1" || posts[1].Sentiment != domain.SentimentSell {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestFileStoreSavesEmptyListAsArray(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	if err := store.SaveRecommendations(context.Background(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, RecommendationsFile))
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}

func TestFileStoreJoinedUsesLowercaseFile(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	ctx := context.Background()

	if err := store.SaveJoined(ctx, "AAPL", sampleJoined()); err != nil {
		t.Fatalf("save joined: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "aapl_data.json")); err != nil {
		t.Fatalf("expected aapl_data.json: %v", err)
	}

	record, err := store.LoadJoined(ctx, "aapl")
	if err != nil {
		t.Fatalf("load joined: %v", err)
	}
	if record.StockData == nil || len(record.StockData.Prices) != 1 || record.CramerRecommendations[0].TweetID != "1" {
		t.Fatalf("unexpected record: %+v", record)
	}

	if _, err := store.LoadJoined(ctx, "MSFT"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreRejectsUnsafeSymbols(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := store.SaveJoined(ctx, "../evil", sampleJoined()); err == nil {
		t.Fatalf("expected unsafe symbol to be rejected")
	}
	if _, err := store.LoadJoined(ctx, "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unsafe symbol, got %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "nflx_data.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.LoadJoined(context.Background(), "NFLX")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"inverse-cramer/internal/config"
	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/repository"
	"inverse-cramer/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

const timeline = `{"result":{"timeline":{"instructions":[{"entries":[{"content":{"items":[
	{"item":{"itemContent":{"tweet_results":{"result":{
		"core":{"user_results":{"result":{"legacy":{"name":"Jim Cramer","screen_name":"jimcramer"}}}},
		"legacy":{"full_text":"I like $NVDA here, buy it","created_at":"Mon Jan 01 15:00:00 +0000 2024","id_str":"42"}
	}}}}}
]}}]}]}}}`

const chart = `{"chart":{"result":[{
	"meta":{"symbol":"NVDA","currency":"USD","exchangeName":"NMS","longName":"NVIDIA Corporation"},
	"timestamp":[1704110400,1706788800],
	"indicators":{"quote":[{"close":[50,60]}]}
}]}}`

type fakeSearcher struct{}

func (fakeSearcher) Search(context.Context, domain.SearchQuery) ([]byte, error) {
	return []byte(timeline), nil
}

type fakeFetcher struct{}

func (fakeFetcher) FetchChart(_ context.Context, q domain.PriceQuery) ([]byte, error) {
	if q.Symbol != "NVDA" {
		return nil, errors.New("not found")
	}
	return []byte(chart), nil
}

func stubProviders(t *testing.T) {
	t.Helper()
	origTwitter, origYahoo := newTwitterProvider, newYahooProvider
	newTwitterProvider = func(*config.Config, trace.Tracer) service.TimelineSearcher { return fakeSearcher{} }
	newYahooProvider = func(*config.Config, trace.Tracer) service.ChartFetcher { return fakeFetcher{} }
	t.Cleanup(func() {
		newTwitterProvider, newYahooProvider = origTwitter, origYahoo
	})
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DataDir:       filepath.Join(dir, "data"),
		SQLitePath:    filepath.Join(dir, "mirror.db"),
		SearchQueries: []string{"from:jimcramer $"},
		SearchCount:   10,
		SearchType:    "Latest",
		Symbols:       []string{"NVDA"},
		ChartRange:    "5y",
		ChartInterval: "1mo",
	}
}

func TestNewRunsSearchAndStocksEndToEnd(t *testing.T) {
	stubProviders(t)
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, testTracer, Deps{})
	require.NoError(t, err)
	defer a.Close()

	_, posts, err := a.Search.Run(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"NVDA"}, posts[0].StockSymbols)

	_, err = a.Stocks.RunBatch(ctx, nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.DataDir, repository.RecommendationsFile))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.DataDir, "nvda_data.json"))
	require.NoError(t, err)

	record, err := a.Stocks.Joined(ctx, "nvda")
	require.NoError(t, err)
	require.NotNil(t, record.StockData)
	assert.Equal(t, "NVIDIA Corporation", *record.StockData.Meta.CompanyName)
	require.Len(t, record.CramerRecommendations, 1)
	assert.Equal(t, "42", record.CramerRecommendations[0].TweetID)

	lite, err := repository.NewSQLiteStore(cfg.SQLitePath)
	require.NoError(t, err)
	defer lite.Close()
	mirrored, err := lite.LoadJoined(ctx, "NVDA")
	require.NoError(t, err)
	assert.Len(t, mirrored.CramerRecommendations, 1)
}

func TestNewSQLiteFailure(t *testing.T) {
	stubProviders(t)
	orig := newSQLiteStore
	newSQLiteStore = func(string) (repository.Store, error) { return nil, errors.New("readonly filesystem") }
	t.Cleanup(func() { newSQLiteStore = orig })

	_, err := New(context.Background(), testConfig(t), testTracer, Deps{})
	require.Error(t, err)
}

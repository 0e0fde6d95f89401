package service

import (
	"context"
	"errors"
	"testing"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchServiceRunCollectsInQueryOrder(t *testing.T) {
	searcher := &stubSearcher{responses: map[string]string{
		"q1": timelineWith("Buy $AAPL now", "nothing to see here"),
		"q2": timelineWith("I would sell $TSLA"),
	}}
	store := newMemoryStore()
	m := metrics.New()
	svc := NewSearchService(testTracer, searcher, store, m, SearchOptions{Queries: []string{"q1", "q2"}, Count: 20, Type: "Top"})

	result, posts, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 2)
	assert.Equal(t, []string{"AAPL"}, posts[0].StockSymbols)
	assert.Equal(t, domain.SentimentBuy, posts[0].Sentiment)
	assert.Equal(t, []string{"TSLA"}, posts[1].StockSymbols)
	assert.Equal(t, domain.SentimentSell, posts[1].Sentiment)
	assert.Equal(t, posts, store.posts)

	require.Len(t, searcher.queries, 2)
	assert.Equal(t, domain.SearchQuery{Query: "q1", Count: 20, Type: "Top"}, searcher.queries[0])

	assert.Equal(t, "search", result.Kind)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Records)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchQueries.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PostsExtracted))
}

func TestSearchServiceRunSkipsFailedQuery(t *testing.T) {
	searcher := &stubSearcher{
		responses: map[string]string{"q2": timelineWith("bullish on $NVDA")},
		errs:      map[string]error{"q1": errors.New("rate limited")},
	}
	store := newMemoryStore()
	svc := NewSearchService(testTracer, searcher, store, nil, SearchOptions{Queries: []string{"q1", "q2"}})

	result, posts, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, []string{"NVDA"}, posts[0].StockSymbols)
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "rate limited")
	assert.Equal(t, 1, store.saves)
}

func TestSearchServiceRunInvalidPayloadCountsAsFailure(t *testing.T) {
	searcher := &stubSearcher{responses: map[string]string{"q": "not json"}}
	store := newMemoryStore()
	svc := NewSearchService(testTracer, searcher, store, nil, SearchOptions{Queries: []string{"q"}})

	result, posts, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, store.posts, "empty runs still store an empty list")
	assert.Len(t, result.Errors, 1)
}

func TestSearchServiceRunCancelledDoesNotSave(t *testing.T) {
	searcher := &stubSearcher{}
	store := newMemoryStore()
	svc := NewSearchService(testTracer, searcher, store, nil, SearchOptions{Queries: []string{"q1", "q2"}, Pause: 1 << 40})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, searcher.queries, 1)
	assert.Zero(t, store.saves)
}

func TestSearchServiceRunCancelledDuringLastQueryDoesNotSave(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	searcher := &stubSearcher{
		responses: map[string]string{"q1": timelineWith("Buy $AAPL now")},
		errs:      map[string]error{"q2": context.Canceled},
		onSearch: func(q string) {
			if q == "q2" {
				cancel()
			}
		},
	}
	store := newMemoryStore()
	svc := NewSearchService(testTracer, searcher, store, nil, SearchOptions{Queries: []string{"q1", "q2"}})

	_, posts, err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, posts)
	assert.Len(t, searcher.queries, 2)
	assert.Zero(t, store.saves)
	assert.Nil(t, store.posts)
}

func TestSearchServiceRunSaveError(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	svc := NewSearchService(testTracer, &stubSearcher{}, store, nil, SearchOptions{Queries: []string{"q"}})

	_, _, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSearchServiceDefaults(t *testing.T) {
	svc := NewSearchService(testTracer, &stubSearcher{}, newMemoryStore(), nil, SearchOptions{})
	assert.Equal(t, domain.DefaultSearchQueries, svc.opts.Queries)
	assert.Equal(t, 100, svc.opts.Count)
	assert.Equal(t, "Latest", svc.opts.Type)
}

func TestSearchServiceRecommendations(t *testing.T) {
	store := newMemoryStore()
	svc := NewSearchService(testTracer, &stubSearcher{}, store, nil, SearchOptions{})

	_, err := svc.Recommendations(context.Background())
	require.Error(t, err)

	require.NoError(t, store.SaveRecommendations(context.Background(), []domain.Post{{ID: "1"}}))
	posts, err := svc.Recommendations(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPauseHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pause(ctx, 1<<40), context.Canceled)
	assert.ErrorIs(t, pause(ctx, 0), context.Canceled)
	assert.NoError(t, pause(context.Background(), 0))
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/performance"
	"inverse-cramer/internal/repository"

	tele "gopkg.in/telebot.v3"
)

const maxCalls = 5

type StockInfo interface {
	Joined(ctx context.Context, symbol string) (*domain.JoinedRecord, error)
	Performance(ctx context.Context, symbol string) (*performance.Summary, error)
}

func StartTelegramBot(token string, stocks StockInfo, symbols []string) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/cramer", func(c tele.Context) error {
		return c.Send(cramerReply(context.Background(), stocks, symbols, c.Args()))
	})

	b.Handle("/calls", func(c tele.Context) error {
		return c.Send(callsReply(context.Background(), stocks, symbols, c.Args()))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func cramerReply(ctx context.Context, stocks StockInfo, symbols []string, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("Usage: /cramer AAPL\nTracked: %s", strings.Join(symbols, ", "))
	}
	symbol := domain.NormalizeSymbol(args[0])
	summary, err := stocks.Performance(ctx, symbol)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Sprintf("No data for %s yet\nTracked: %s", symbol, strings.Join(symbols, ", "))
	}
	if err != nil {
		return fmt.Sprintf("Error loading %s: %v", symbol, err)
	}
	return formatSummary(summary)
}

func callsReply(ctx context.Context, stocks StockInfo, symbols []string, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("Usage: /calls AAPL\nTracked: %s", strings.Join(symbols, ", "))
	}
	symbol := domain.NormalizeSymbol(args[0])
	record, err := stocks.Joined(ctx, symbol)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Sprintf("No data for %s yet", symbol)
	}
	if err != nil {
		return fmt.Sprintf("Error loading %s: %v", symbol, err)
	}
	return formatCalls(symbol, record.CramerRecommendations)
}

func formatSummary(s *performance.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d buy / %d sell calls\n", s.Symbol, s.BuyCount, s.SellCount)
	for _, h := range performance.Horizons {
		fmt.Fprintf(&b, "%-3s buy %s | sell %s\n", h.Key, pct(s.AvgBuy[h.Key]), pct(s.AvgSell[h.Key]))
	}
	if s.InverseCramerWorks {
		b.WriteString("Inverse Cramer works here")
	} else {
		b.WriteString("Cramer holds up here")
	}
	return b.String()
}

func formatCalls(symbol string, entries []domain.RecommendationEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No Cramer calls on %s", symbol)
	}
	latest := append([]domain.RecommendationEntry(nil), entries...)
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].Date > latest[j].Date })
	if len(latest) > maxCalls {
		latest = latest[:maxCalls]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Latest Cramer calls on %s", symbol)
	for _, e := range latest {
		fmt.Fprintf(&b, "\n%s %s 1m %s", e.Date, strings.ToUpper(string(e.Recommendation)), pct(e.Performance[performance.VerdictHorizon]))
	}
	return b.String()
}

func pct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

package recommendation

import (
	"log"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/jsontree"
)

const unknownUser = "Unknown"

// ExtractPost builds a Post from one timeline itemContent node. It reports
// false when the node carries no tweet, no author, or no legacy tweet body.
func ExtractPost(itemContent jsontree.Node) (post domain.Post, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error extracting tweet data: %v", r)
			post, ok = domain.Post{}, false
		}
	}()

	tweet, found := itemContent.Get("tweet_results", "result")
	if !found {
		return domain.Post{}, false
	}

	author, found := tweet.Get("core", "user_results", "result")
	if !found {
		return domain.Post{}, false
	}
	legacy, found := tweet.Get("legacy")
	if !found || !legacy.IsObject() {
		return domain.Post{}, false
	}

	text := legacy.StringOr("", "full_text")
	return domain.Post{
		User: domain.PostUser{
			Name:       author.StringOr(unknownUser, "legacy", "name"),
			ScreenName: author.StringOr(unknownUser, "legacy", "screen_name"),
		},
		Text:         text,
		CreatedAt:    legacy.StringOr("", "created_at"),
		ID:           legacy.StringOr("", "id_str"),
		StockSymbols: ExtractSymbols(text),
		Sentiment:    ClassifySentiment(text),
	}, true
}

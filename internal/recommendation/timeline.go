package recommendation

import (
	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/jsontree"
)

// WalkTimeline collects recommendation posts from a search timeline payload in
// encounter order. Any branch missing an expected key is skipped on its own.
func WalkTimeline(payload jsontree.Node) []domain.Post {
	posts := make([]domain.Post, 0)

	timeline, ok := payload.Get("result", "timeline")
	if !ok {
		return posts
	}
	instructions, ok := timeline.Get("instructions")
	if !ok {
		return posts
	}

	instructions.Each(func(instruction jsontree.Node) bool {
		entries, ok := instruction.Get("entries")
		if !ok {
			return true
		}
		entries.Each(func(entry jsontree.Node) bool {
			items, ok := entry.Get("content", "items")
			if !ok {
				return true
			}
			items.Each(func(item jsontree.Node) bool {
				itemContent, ok := item.Get("item", "itemContent")
				if !ok {
					return true
				}
				post, ok := ExtractPost(itemContent)
				if ok && IsRecommendation(post.Text) {
					posts = append(posts, post)
				}
				return true
			})
			return true
		})
		return true
	})
	return posts
}

package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kapofest/cheerboard/internal/domain/post"
)

const (
	FeedDefaultLimit = 20
	FeedMaxLimit     = 50
)

type FetchPageInput struct {
	Filter post.Filter
	// Cursor is the opaque marker from a previous page, empty for the first.
	Cursor string
	Limit  int
}

type FeedPage struct {
	Items []post.Post
	// NextCursor is nil exactly when this is the last page for the filter.
	NextCursor *string
}

// FeedService exposes cursor-based enumeration of the post feed in strictly
// descending ID order. The cursor is forward-only: posts inserted ahead of an
// in-progress enumeration stay invisible to it, and already-returned posts
// never reappear.
type FeedService struct {
	postRepo post.Repository
}

func NewFeedService(postRepo post.Repository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// FetchPage returns one page. Out-of-range limits are clamped to
// [1, FeedMaxLimit], not rejected; zero means FeedDefaultLimit.
func (s *FeedService) FetchPage(ctx context.Context, in FetchPageInput) (FeedPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.FetchPage")
	defer span.End()

	limit := clampLimit(in.Limit)

	cursor, err := decodeCursor(in.Cursor)
	if err != nil {
		return FeedPage{}, err
	}

	// One extra row decides whether a full page is also the final page.
	items, err := s.postRepo.ListPage(ctx, in.Filter, cursor, limit+1)
	if err != nil {
		return FeedPage{}, fmt.Errorf("list feed page: %w", err)
	}

	page := FeedPage{}
	if len(items) > limit {
		items = items[:limit]
		next := encodeCursor(items[len(items)-1].ID)
		page.NextCursor = &next
	}
	page.Items = items

	return page, nil
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return FeedDefaultLimit
	case limit < 1:
		return 1
	case limit > FeedMaxLimit:
		return FeedMaxLimit
	default:
		return limit
	}
}

func decodeCursor(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cursor <= 0 {
		return 0, fmt.Errorf("%w: malformed cursor %q", ErrInvalidInput, raw)
	}

	return cursor, nil
}

func encodeCursor(id int64) string {
	return strconv.FormatInt(id, 10)
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kapofest/cheerboard/internal/domain/post"
)

type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"

	// BattlePageSize is the fixed page size used while walking the feed,
	// independent of the requested item window.
	BattlePageSize = 50

	BattleDefaultMaxItems = 200
	BattleTopPostsPerSide = 5
)

// Snapshot is one fully recomputed aggregation pass over the recent feed.
// Nothing is carried over between passes.
type Snapshot struct {
	TotalLikes map[Side]int64
	TopPosts   map[Side][]post.Post
	Examined   int
	ComputedAt time.Time
}

// SideClassifier buckets a post into home or away by case-insensitive
// substring match of a school token against the author's school field. The
// field is free text, so a school whose name merely contains a token would
// misclassify; the heuristic is kept as-is for compatibility with the
// existing data.
type SideClassifier struct {
	homeToken string
	awayToken string
}

func NewSideClassifier(homeToken, awayToken string) SideClassifier {
	return SideClassifier{
		homeToken: strings.ToLower(strings.TrimSpace(homeToken)),
		awayToken: strings.ToLower(strings.TrimSpace(awayToken)),
	}
}

// Classify returns the side for a school string, or false when it matches
// neither token. Neither-side posts are a normal filtering outcome, not an
// error.
func (c SideClassifier) Classify(school string) (Side, bool) {
	normalized := strings.ToLower(school)
	if c.homeToken != "" && strings.Contains(normalized, c.homeToken) {
		return SideHome, true
	}
	if c.awayToken != "" && strings.Contains(normalized, c.awayToken) {
		return SideAway, true
	}

	return "", false
}

// BattleService folds the paginated feed into per-side like totals and
// top-post lists.
type BattleService struct {
	feed       *FeedService
	classifier SideClassifier
	now        func() time.Time
}

func NewBattleService(feed *FeedService, classifier SideClassifier) *BattleService {
	return &BattleService{
		feed:       feed,
		classifier: classifier,
		now:        time.Now,
	}
}

// ComputeSnapshot walks the feed in fixed-size pages from the newest post,
// stops at maxItems or the end of the feed, and aggregates the window.
// Any page failure aborts the whole pass: partial sums are discarded and a
// single ErrAggregationFailed surfaces, wrapping the cause.
func (s *BattleService) ComputeSnapshot(ctx context.Context, maxItems int) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BattleService.ComputeSnapshot")
	defer span.End()

	if maxItems <= 0 {
		maxItems = BattleDefaultMaxItems
	}

	accumulated := make([]post.Post, 0, maxItems)
	cursor := ""
	for len(accumulated) < maxItems {
		page, err := s.feed.FetchPage(ctx, FetchPageInput{
			Cursor: cursor,
			Limit:  BattlePageSize,
		})
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrAggregationFailed, err)
		}

		accumulated = append(accumulated, page.Items...)
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	if len(accumulated) > maxItems {
		accumulated = accumulated[:maxItems]
	}

	snapshot := Snapshot{
		TotalLikes: map[Side]int64{SideHome: 0, SideAway: 0},
		TopPosts:   make(map[Side][]post.Post, 2),
		Examined:   len(accumulated),
		ComputedAt: s.now(),
	}

	buckets := map[Side][]post.Post{}
	for _, p := range accumulated {
		side, ok := s.classifier.Classify(p.AuthorSchool)
		if !ok {
			continue
		}
		snapshot.TotalLikes[side] += p.LikeCount
		buckets[side] = append(buckets[side], p)
	}

	for _, side := range []Side{SideHome, SideAway} {
		snapshot.TopPosts[side] = topByLikes(buckets[side], BattleTopPostsPerSide)
	}

	return snapshot, nil
}

// topByLikes keeps the stable encounter order among equal like counts, so
// ties go to the post seen first (the more recent one).
func topByLikes(items []post.Post, k int) []post.Post {
	ranked := append([]post.Post(nil), items...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikeCount > ranked[j].LikeCount
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked
}

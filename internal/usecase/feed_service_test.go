package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kapofest/cheerboard/internal/domain/post"
	"github.com/kapofest/cheerboard/internal/infrastructure/repository/memory"
)

func makeFeedPosts(n int) []post.Post {
	createdAt := time.Date(2026, 9, 19, 10, 0, 0, 0, time.UTC)
	out := make([]post.Post, 0, n)
	for i := 1; i <= n; i++ {
		school := memory.SchoolKaist
		if i%2 == 0 {
			school = memory.SchoolPostech
		}
		out = append(out, post.Post{
			ID:           int64(i),
			PublicID:     fmt.Sprintf("post-%04d", i),
			Title:        fmt.Sprintf("post %d", i),
			AuthorID:     fmt.Sprintf("author-%d", i),
			AuthorSchool: school,
			Tag:          "cheer",
			LikeCount:    int64(i % 7),
			Visibility:   post.VisibilityPublic,
			CreatedAt:    createdAt.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestFeedService_FetchPage_Ordering(t *testing.T) {
	service := NewFeedService(memory.NewPostRepository(makeFeedPosts(30)))

	page, err := service.FetchPage(t.Context(), FetchPageInput{Limit: 10})
	if err != nil {
		t.Fatalf("fetch page failed: %v", err)
	}
	if len(page.Items) != 10 {
		t.Fatalf("unexpected page size: %d", len(page.Items))
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].ID >= page.Items[i-1].ID {
			t.Fatalf("items not strictly descending by id at index %d", i)
		}
	}
	if page.Items[0].ID != 30 {
		t.Fatalf("first page must start at the newest post: got id=%d", page.Items[0].ID)
	}
	if page.NextCursor == nil {
		t.Fatalf("expected a next cursor with more items remaining")
	}
}

func TestFeedService_FetchPage_FullEnumeration(t *testing.T) {
	const total = 47
	service := NewFeedService(memory.NewPostRepository(makeFeedPosts(total)))

	seen := make(map[int64]int)
	cursor := ""
	pages := 0
	for {
		page, err := service.FetchPage(t.Context(), FetchPageInput{Cursor: cursor, Limit: 10})
		if err != nil {
			t.Fatalf("fetch page failed: %v", err)
		}
		for _, item := range page.Items {
			seen[item.ID]++
		}
		pages++
		if page.NextCursor == nil {
			if len(page.Items) == 0 && pages > 1 {
				t.Fatalf("last page marker must arrive with the final items, not after them")
			}
			break
		}
		cursor = *page.NextCursor
	}

	if len(seen) != total {
		t.Fatalf("enumeration omitted items: got=%d want=%d", len(seen), total)
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("item %d returned %d times", id, count)
		}
	}
	if pages != 5 {
		t.Fatalf("unexpected page count: got=%d want=5", pages)
	}
}

func TestFeedService_FetchPage_LastPageExactFit(t *testing.T) {
	service := NewFeedService(memory.NewPostRepository(makeFeedPosts(20)))

	page, err := service.FetchPage(t.Context(), FetchPageInput{Limit: 20})
	if err != nil {
		t.Fatalf("fetch page failed: %v", err)
	}
	if len(page.Items) != 20 {
		t.Fatalf("unexpected page size: %d", len(page.Items))
	}
	if page.NextCursor != nil {
		t.Fatalf("nextCursor must be nil when the full page is also the last page")
	}
}

func TestFeedService_FetchPage_LimitClamping(t *testing.T) {
	service := NewFeedService(memory.NewPostRepository(makeFeedPosts(120)))

	page, err := service.FetchPage(t.Context(), FetchPageInput{Limit: 1000})
	if err != nil {
		t.Fatalf("fetch page failed: %v", err)
	}
	if len(page.Items) != FeedMaxLimit {
		t.Fatalf("oversized limit must clamp to %d, got %d", FeedMaxLimit, len(page.Items))
	}

	page, err = service.FetchPage(t.Context(), FetchPageInput{Limit: -3})
	if err != nil {
		t.Fatalf("fetch page failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("negative limit must clamp to 1, got %d", len(page.Items))
	}

	page, err = service.FetchPage(t.Context(), FetchPageInput{})
	if err != nil {
		t.Fatalf("fetch page failed: %v", err)
	}
	if len(page.Items) != FeedDefaultLimit {
		t.Fatalf("zero limit must default to %d, got %d", FeedDefaultLimit, len(page.Items))
	}
}

func TestFeedService_FetchPage_MalformedCursor(t *testing.T) {
	service := NewFeedService(memory.NewPostRepository(makeFeedPosts(5)))

	for _, raw := range []string{"abc", "-4", "0", "12x"} {
		if _, err := service.FetchPage(t.Context(), FetchPageInput{Cursor: raw}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("cursor %q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestFeedService_FetchPage_InsertsDuringEnumerationAreInvisible(t *testing.T) {
	repo := memory.NewPostRepository(makeFeedPosts(25))
	service := NewFeedService(repo)

	first, err := service.FetchPage(t.Context(), FetchPageInput{Limit: 10})
	if err != nil {
		t.Fatalf("first page failed: %v", err)
	}
	if first.NextCursor == nil {
		t.Fatalf("expected a next cursor")
	}

	// A post inserted ahead of the cursor position must not shift the
	// enumeration.
	repo.Add(post.Post{ID: 100, PublicID: "post-0100", AuthorID: "late", AuthorSchool: memory.SchoolKaist, Visibility: post.VisibilityPublic})

	second, err := service.FetchPage(t.Context(), FetchPageInput{Cursor: *first.NextCursor, Limit: 10})
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}

	returned := make(map[int64]struct{}, len(first.Items))
	for _, item := range first.Items {
		returned[item.ID] = struct{}{}
	}
	for _, item := range second.Items {
		if item.ID == 100 {
			t.Fatalf("post inserted ahead of the cursor leaked into the enumeration")
		}
		if _, dup := returned[item.ID]; dup {
			t.Fatalf("item %d returned twice across pages", item.ID)
		}
	}
}

func TestFeedService_FetchPage_ConjunctiveFilters(t *testing.T) {
	posts := makeFeedPosts(10)
	posts[2].Tag = "food"
	posts[4].Visibility = post.VisibilityHidden
	service := NewFeedService(memory.NewPostRepository(posts))

	page, err := service.FetchPage(t.Context(), FetchPageInput{
		Filter: post.Filter{School: memory.SchoolKaist, Tag: "cheer", Visibility: post.VisibilityPublic},
	})
	if err != nil {
		t.Fatalf("fetch page failed: %v", err)
	}
	for _, item := range page.Items {
		if item.AuthorSchool != memory.SchoolKaist || item.Tag != "cheer" || item.Visibility != post.VisibilityPublic {
			t.Fatalf("filter predicates must all hold: %+v", item)
		}
	}
	if len(page.Items) != 3 {
		t.Fatalf("unexpected filtered count: got=%d want=3", len(page.Items))
	}
}

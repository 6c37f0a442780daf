package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kapofest/cheerboard/internal/domain/post"
)

// PostRepository holds feed posts ordered by descending id. Posts are
// read-only to this subsystem; Add exists so tests can simulate inserts
// arriving during an enumeration.
type PostRepository struct {
	mu    sync.RWMutex
	posts []post.Post
}

func NewPostRepository(posts []post.Post) *PostRepository {
	rows := make([]post.Post, len(posts))
	copy(rows, posts)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ID > rows[j].ID
	})

	return &PostRepository{posts: rows}
}

func (r *PostRepository) ListPage(_ context.Context, filter post.Filter, cursor int64, limit int) ([]post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]post.Post, 0, limit)
	for _, item := range r.posts {
		if cursor > 0 && item.ID >= cursor {
			continue
		}
		if !matchesFilter(item, filter) {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

func (r *PostRepository) Add(items ...post.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = append(r.posts, items...)
	sort.SliceStable(r.posts, func(i, j int) bool {
		return r.posts[i].ID > r.posts[j].ID
	})
}

func matchesFilter(item post.Post, filter post.Filter) bool {
	if filter.School != "" && item.AuthorSchool != filter.School {
		return false
	}
	if filter.Tag != "" && item.Tag != filter.Tag {
		return false
	}
	if filter.Visibility != "" && item.Visibility != filter.Visibility {
		return false
	}

	return true
}

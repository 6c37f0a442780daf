package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kapofest/cheerboard/internal/domain/post"
	qb "github.com/kapofest/cheerboard/internal/platform/querybuilder"
)

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// ListPage reads one page in strictly descending id order. The cursor is the
// last-seen serial id, so rows inserted after an enumeration started always
// sort ahead of the cursor and stay invisible to it.
func (r *PostRepository) ListPage(ctx context.Context, filter post.Filter, cursor int64, limit int) ([]post.Post, error) {
	conditions := []qb.Condition{qb.IsNull("deleted_at")}
	if cursor > 0 {
		conditions = append(conditions, qb.Lt("id", cursor))
	}
	if filter.School != "" {
		conditions = append(conditions, qb.Eq("author_school", filter.School))
	}
	if filter.Tag != "" {
		conditions = append(conditions, qb.Eq("tag", filter.Tag))
	}
	if filter.Visibility != "" {
		conditions = append(conditions, qb.Eq("visibility", filter.Visibility))
	}

	query, args, err := qb.Select("*").From("posts").
		Where(conditions...).
		OrderBy("id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list posts query: %w", err)
	}

	var rows []postTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, post.Post{
			ID:           row.ID,
			PublicID:     row.PublicID,
			Title:        row.Title,
			Content:      row.Content,
			AuthorID:     row.AuthorID,
			AuthorName:   row.AuthorName,
			AuthorSchool: row.AuthorSchool,
			Tag:          row.Tag,
			LikeCount:    row.LikeCount,
			Visibility:   row.Visibility,
			CreatedAt:    row.CreatedAt,
		})
	}

	return out, nil
}

package post

import "context"

// Repository describes read-only feed access from use cases.
type Repository interface {
	// ListPage returns up to limit posts matching filter in strictly
	// descending ID order. A cursor of zero starts from the newest post;
	// a non-zero cursor returns only posts with ID < cursor.
	ListPage(ctx context.Context, filter Filter, cursor int64, limit int) ([]Post, error)
}

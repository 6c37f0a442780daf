package post

import (
	"fmt"
	"time"
)

const (
	VisibilityPublic = "public"
	VisibilityHidden = "hidden"
)

// Post is a feed entry as consumed by aggregation. LikeCount is denormalized
// and maintained by the like-toggle flow elsewhere; this service never
// recomputes it. The serial ID doubles as the pagination cursor, descending
// ID being the reverse-chronological total order.
type Post struct {
	ID           int64
	PublicID     string
	Title        string
	Content      string
	AuthorID     string
	AuthorName   string
	AuthorSchool string
	Tag          string
	LikeCount    int64
	Visibility   string
	CreatedAt    time.Time
}

func (p Post) Validate() error {
	if p.PublicID == "" {
		return fmt.Errorf("post public id is required")
	}
	if p.AuthorID == "" {
		return fmt.Errorf("post author id is required")
	}
	if p.LikeCount < 0 {
		return fmt.Errorf("post like count cannot be negative")
	}

	return nil
}

// Filter narrows a feed enumeration. Empty fields mean no constraint;
// populated fields are conjunctive.
type Filter struct {
	School     string
	Tag        string
	Visibility string
}

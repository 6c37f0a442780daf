package postgres

import "time"

type postTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	Title        string     `db:"title"`
	Content      string     `db:"content"`
	AuthorID     string     `db:"author_id"`
	AuthorName   string     `db:"author_name"`
	AuthorSchool string     `db:"author_school"`
	Tag          string     `db:"tag"`
	LikeCount    int64      `db:"like_count"`
	Visibility   string     `db:"visibility"`
	CreatedAt    time.Time  `db:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

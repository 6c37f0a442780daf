package postgres

import "time"

type tapTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	MatchID   string    `db:"match_public_id"`
	TeamID    string    `db:"team_public_id"`
	UserID    string    `db:"user_id"`
	Count     int64     `db:"count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type tapInsertModel struct {
	PublicID string `db:"public_id"`
	MatchID  string `db:"match_public_id"`
	TeamID   string `db:"team_public_id"`
	UserID   string `db:"user_id"`
	Count    int64  `db:"count"`
}

type tapTotalRow struct {
	TeamID string `db:"team_public_id"`
	Total  int64  `db:"total"`
}

package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID         int64        `db:"id"`
	PublicID   string       `db:"public_id"`
	Title      string       `db:"title"`
	IsActive   bool         `db:"is_active"`
	StartsAt   time.Time    `db:"starts_at"`
	EndsAt     sql.NullTime `db:"ends_at"`
	HomeTeamID string       `db:"home_team_public_id"`
	AwayTeamID string       `db:"away_team_public_id"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
	DeletedAt  *time.Time   `db:"deleted_at"`
}

package match

import (
	"fmt"
	"time"
)

// Match is one cheer contest between two schools. Matches are created by an
// admin process; this service only reads them. The "at most one active match"
// rule is a query-time assumption, not a schema constraint.
type Match struct {
	ID         string
	Title      string
	IsActive   bool
	StartsAt   time.Time
	EndsAt     *time.Time
	HomeTeamID string
	AwayTeamID string
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.Title == "" {
		return fmt.Errorf("match title is required")
	}
	if m.HomeTeamID == "" {
		return fmt.Errorf("match home team id is required")
	}
	if m.AwayTeamID == "" {
		return fmt.Errorf("match away team id is required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away team must differ")
	}

	return nil
}

// HasTeam reports whether teamID is one of the match's two sides.
func (m Match) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == m.HomeTeamID || teamID == m.AwayTeamID)
}

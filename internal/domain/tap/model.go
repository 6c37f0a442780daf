package tap

import (
	"fmt"
	"time"
)

// Record is the cumulative tap counter for one user on one team in one match.
// There is exactly one record per (match, team, user) triple and its count
// only ever grows; taps are tracked cumulatively, not as discrete events.
type Record struct {
	ID        string
	MatchID   string
	TeamID    string
	UserID    string
	Count     int64
	UpdatedAt time.Time
}

func (r Record) Validate() error {
	if r.MatchID == "" {
		return fmt.Errorf("tap match id is required")
	}
	if r.TeamID == "" {
		return fmt.Errorf("tap team id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("tap user id is required")
	}
	if r.Count < 0 {
		return fmt.Errorf("tap count cannot be negative")
	}

	return nil
}

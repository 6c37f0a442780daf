package tap

import "context"

// Repository describes counter persistence needs from use cases.
//
// Increment must be atomic with respect to concurrent callers on the same
// (matchID, teamID, userID) key: concurrent increments compose, never
// last-write-wins. Implementations back this with a single conditional
// insert-or-increment against the store, not application-level locking.
type Repository interface {
	// Increment creates the record with count on first tap, otherwise adds
	// count to the stored value, and returns the resulting record.
	Increment(ctx context.Context, matchID, teamID, userID string, count int64) (Record, error)
	// TotalsByTeam sums committed counts per team for a match. Teams that
	// have no records yet are reported with a zero total.
	TotalsByTeam(ctx context.Context, matchID string, teamIDs []string) (map[string]int64, error)
	// ListByMatch returns every record of a match, in no particular order.
	ListByMatch(ctx context.Context, matchID string) ([]Record, error)
}

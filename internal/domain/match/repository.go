package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	// Active returns the currently active match, if any.
	Active(ctx context.Context) (Match, bool, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
}

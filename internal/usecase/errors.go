package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrMatchInactive         = errors.New("match is not active")
	ErrInvalidTeam           = errors.New("team does not belong to match")
	ErrAggregationFailed     = errors.New("battle aggregation failed")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
